package service

import (
	"context"
	"fmt"
	"strings"

	"ai-tutoring-be/internal/config"
	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/apperror"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/pkg/metrics"
	"ai-tutoring-be/internal/repository/contract"
	"ai-tutoring-be/internal/repository/memory"
	"ai-tutoring-be/pkg/embedding"
	"ai-tutoring-be/pkg/intent"
	"ai-tutoring-be/pkg/llm"

	"github.com/google/uuid"
)

// TutoringResult is the outcome of one tutoring turn.
type TutoringResult struct {
	TutorMessage string
	IsComplete   bool
	NextPrompt   *string
	Intent       string
	CacheHit     bool
	SessionId    string
	Depth        int
}

type TutoringService struct {
	interactionRepo contract.InteractionRepository
	sessions        *memory.SessionStore
	embedder        embedding.Provider
	fineTuned       llm.LLMProvider
	classifier      *intent.Classifier
	tutoringCfg     config.TutoringConfig
	fineTunedCfg    config.ModelConfig
	logger          logger.ILogger
}

func NewTutoringService(
	interactionRepo contract.InteractionRepository,
	sessions *memory.SessionStore,
	embedder embedding.Provider,
	fineTuned llm.LLMProvider,
	classifier *intent.Classifier,
	cfg *config.Config,
	log logger.ILogger,
) *TutoringService {
	return &TutoringService{
		interactionRepo: interactionRepo,
		sessions:        sessions,
		embedder:        embedder,
		fineTuned:       fineTuned,
		classifier:      classifier,
		tutoringCfg:     cfg.Tutoring,
		fineTunedCfg:    cfg.FineTuned,
		logger:          log,
	}
}

// HandleTurn advances one tutoring exchange. Turns first try to reuse a
// cached child of the session's current tree node; only misses pay for
// intent classification and a model call, and the fresh exchange is
// written back as a new child so identical paths replay from the tree.
func (s *TutoringService) HandleTurn(ctx context.Context, sessionId, originalQuestion, originalAnswer, questionIdStr, userResponse string) (*TutoringResult, error) {
	if !s.tutoringCfg.Enabled {
		s.logger.Warn("tutoring", "Tutoring mode is disabled", nil)
		return &TutoringResult{
			TutorMessage: "Tutoring mode is currently disabled.",
			IsComplete:   true,
			Intent:       string(intent.Skip),
			SessionId:    sessionId,
		}, nil
	}

	questionId, err := uuid.Parse(questionIdStr)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid question id: %s", questionIdStr))
	}

	// Step 1: resolve the session, creating one when the id is unknown.
	var currentNodeId *uuid.UUID
	depth := 0
	isNewBranch := false

	session, err := s.sessions.Get(sessionId)
	if err != nil {
		session = s.sessions.Create("", originalQuestion)
		sessionId = session.SessionId
		if _, err := s.sessions.UpdateTutoringState(sessionId, memory.TutoringUpdate{
			QuestionId: &questionIdStr,
		}); err != nil {
			return nil, err
		}
	} else {
		if session.Tutoring.CurrentNodeId != "" {
			parsed, parseErr := uuid.Parse(session.Tutoring.CurrentNodeId)
			if parseErr != nil {
				return nil, apperror.Wrap(apperror.KindContractViolation, "session holds malformed node id", parseErr)
			}
			currentNodeId = &parsed
		}
		depth = session.Tutoring.Depth
		isNewBranch = session.Tutoring.IsNewBranch
	}

	// Step 2: embed the utterance. A brand-new branch has no cached
	// children, so the sibling search is skipped outright.
	userEmbedding, err := s.embedder.Embed(ctx, userResponse)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("embedding_error").Inc()
		return nil, apperror.UpstreamUnavailable("embedding service failed", err)
	}

	if !isNewBranch {
		match := s.searchChildren(ctx, questionId, currentNodeId, userEmbedding)
		if match.IsHit && match.MatchedNode != nil {
			result, err := s.advanceToCachedNode(sessionId, questionIdStr, match)
			if err != nil {
				return nil, err
			}
			s.recordExchange(sessionId, userResponse, result.TutorMessage)
			return result, nil
		}
	} else {
		s.logger.Info("tutoring", "Skipping cache search: current node has no cached children", map[string]interface{}{
			"session_id": sessionId,
		})
	}

	// Step 3: miss. Classify intent against the question being taught.
	metrics.InteractionCacheMissesTotal.Inc()
	tutorContext := "The tutor is teaching: " + originalQuestion
	intentResult := s.classifier.Classify(ctx, userResponse, tutorContext)
	s.logger.Info("tutoring", "Intent classified", map[string]interface{}{
		"intent":     string(intentResult.Intent),
		"confidence": intentResult.Confidence,
		"method":     string(intentResult.Method),
	})

	// Step 4: rebuild the conversation path for prompt context.
	var pathSteps []entity.PathStep
	if currentNodeId != nil {
		if path, pathErr := s.interactionRepo.ConversationPath(ctx, questionId, currentNodeId); pathErr == nil {
			pathSteps = path.Steps
		}
	}

	// Step 5: generate the tutoring response.
	tutorMessage, isComplete, err := s.generateResponse(ctx, originalQuestion, originalAnswer, pathSteps, userResponse, intentResult.Intent, depth+1)
	if err != nil {
		return nil, err
	}

	// Step 6: persist the exchange as a new child node. Non-critical.
	newNodeId := s.saveInteraction(ctx, questionId, currentNodeId, userResponse, userEmbedding, tutorMessage)

	if newNodeId != "" && !isComplete {
		markNew := true
		newDepth := depth + 1
		if _, err := s.sessions.UpdateTutoringState(sessionId, memory.TutoringUpdate{
			QuestionId:    &questionIdStr,
			CurrentNodeId: &newNodeId,
			Depth:         &newDepth,
			AppendToPath:  &newNodeId,
			IsNewBranch:   &markNew,
		}); err != nil {
			s.logger.Warn("tutoring", "Session update failed (non-critical)", map[string]interface{}{
				"error": err,
			})
		}
	}

	result := &TutoringResult{
		TutorMessage: tutorMessage,
		IsComplete:   isComplete,
		Intent:       string(intentResult.Intent),
		SessionId:    sessionId,
		Depth:        depth + 1,
	}
	if !isComplete {
		nextPrompt := constant.NextStepPrompt
		result.NextPrompt = &nextPrompt
	}
	s.recordExchange(sessionId, userResponse, tutorMessage)

	s.logger.Info("tutoring", "Turn completed", map[string]interface{}{
		"session_id": sessionId,
		"intent":     result.Intent,
		"complete":   isComplete,
		"saved_node": newNodeId,
	})
	return result, nil
}

// recordExchange appends the turn to the session's bounded history.
// Non-critical.
func (s *TutoringService) recordExchange(sessionId, userResponse, tutorMessage string) {
	if err := s.sessions.AddMessage(sessionId, constant.RoleUser, userResponse); err != nil {
		s.logger.Warn("tutoring", "History append failed (non-critical)", map[string]interface{}{
			"error": err,
		})
		return
	}
	if err := s.sessions.AddMessage(sessionId, constant.RoleAssistant, tutorMessage); err != nil {
		s.logger.Warn("tutoring", "History append failed (non-critical)", map[string]interface{}{
			"error": err,
		})
	}
}

// searchChildren is non-critical: a store failure degrades to a miss.
func (s *TutoringService) searchChildren(ctx context.Context, questionId uuid.UUID, parentId *uuid.UUID, userEmbedding []float32) *entity.ChildMatch {
	match, err := s.interactionRepo.SearchChildren(ctx, questionId, parentId, userEmbedding, s.tutoringCfg.CacheThreshold)
	if err != nil {
		s.logger.Warn("tutoring", "Cache search failed (non-critical)", map[string]interface{}{
			"error": err,
		})
		return &entity.ChildMatch{IsHit: false}
	}
	return match
}

// advanceToCachedNode replays a stored exchange and moves the session
// onto the matched node.
func (s *TutoringService) advanceToCachedNode(sessionId, questionIdStr string, match *entity.ChildMatch) (*TutoringResult, error) {
	node := match.MatchedNode
	metrics.InteractionCacheHitsTotal.Inc()
	metrics.InteractionDepth.Observe(float64(node.Depth))

	s.logger.Info("tutoring", "Cached branch hit", map[string]interface{}{
		"node_id": node.Id.String(),
		"score":   match.Score,
	})

	nodeIdStr := node.Id.String()
	followExisting := false
	if _, err := s.sessions.UpdateTutoringState(sessionId, memory.TutoringUpdate{
		QuestionId:    &questionIdStr,
		CurrentNodeId: &nodeIdStr,
		Depth:         &node.Depth,
		IsNewBranch:   &followExisting,
	}); err != nil {
		return nil, err
	}

	isComplete := node.Depth >= s.tutoringCfg.MaxDepth
	result := &TutoringResult{
		TutorMessage: node.SystemResponse,
		IsComplete:   isComplete,
		Intent:       constant.IntentCached,
		CacheHit:     true,
		SessionId:    sessionId,
		Depth:        node.Depth,
	}
	if !isComplete {
		nextPrompt := constant.CachedStepPrompt
		result.NextPrompt = &nextPrompt
	}
	return result, nil
}

// renderPrompt substitutes {placeholder} tokens literally so braces in
// student content cannot break rendering.
func renderPrompt(template string, values map[string]string) string {
	result := template
	for key, value := range values {
		result = strings.ReplaceAll(result, "{"+key+"}", value)
	}
	return result
}

func buildPathContext(steps []entity.PathStep) string {
	if len(steps) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nPrevious tutoring steps:\n")
	for i, step := range steps {
		fmt.Fprintf(&sb, "Step %d:\n", i+1)
		fmt.Fprintf(&sb, "  Student: %s\n", step.UserInput)
		fmt.Fprintf(&sb, "  Tutor: %s\n", step.SystemResponse)
	}
	return sb.String()
}

func (s *TutoringService) generateResponse(ctx context.Context, question, answer string, pathSteps []entity.PathStep, userResponse string, category intent.Category, depth int) (string, bool, error) {
	pathContext := buildPathContext(pathSteps)

	var systemPrompt, userPrompt string
	isComplete := false

	switch category {
	case intent.Skip:
		systemPrompt = renderPrompt(constant.TutoringSkipPrompt, map[string]string{
			"question": question,
			"answer":   answer,
		})
		userPrompt = "Give me the answer directly."
		isComplete = true
	case intent.Affirmative:
		systemPrompt = renderPrompt(constant.TutoringAffirmativePrompt, map[string]string{
			"question":     question,
			"answer":       answer,
			"path_context": pathContext,
		})
		userPrompt = "Student says: " + userResponse
		isComplete = depth >= s.tutoringCfg.MaxDepth
	case intent.Negative:
		systemPrompt = renderPrompt(constant.TutoringNegativePrompt, map[string]string{
			"question":     question,
			"answer":       answer,
			"path_context": pathContext,
		})
		userPrompt = "Student says they don't understand: " + userResponse
	case intent.Partial:
		systemPrompt = renderPrompt(constant.TutoringPartialPrompt, map[string]string{
			"question":     question,
			"answer":       answer,
			"path_context": pathContext,
		})
		userPrompt = "Student partially understands: " + userResponse
	case intent.Question:
		systemPrompt = renderPrompt(constant.TutoringQuestionPrompt, map[string]string{
			"question":     question,
			"answer":       answer,
			"path_context": pathContext,
		})
		userPrompt = "Student asks: " + userResponse
	default:
		systemPrompt = renderPrompt(constant.TutoringOffTopicPrompt, map[string]string{
			"question":     question,
			"path_context": pathContext,
		})
		userPrompt = "Student says: " + userResponse
	}

	history := []llm.Message{
		{Role: constant.RoleSystem, Content: systemPrompt},
		{Role: constant.RoleUser, Content: userPrompt},
	}

	opts := []llm.Option{
		llm.WithTemperature(s.fineTunedCfg.Temperature),
		llm.WithTopP(s.fineTunedCfg.TopP),
	}
	if s.fineTunedCfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(s.fineTunedCfg.MaxTokens))
	}

	response, err := s.fineTuned.Chat(ctx, history, opts...)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("tutoring_llm_error").Inc()
		return "", false, apperror.UpstreamUnavailable("tutoring model failed", err)
	}
	metrics.LLMCallsTotal.WithLabelValues("fine_tuned_tutoring").Inc()

	return stripThink(response), isComplete, nil
}

// saveInteraction is non-critical: a store failure keeps the generated
// response but leaves no cached branch behind.
func (s *TutoringService) saveInteraction(ctx context.Context, questionId uuid.UUID, parentId *uuid.UUID, userInput string, userEmbedding []float32, systemResponse string) string {
	node := &entity.InteractionNode{
		QuestionId:         questionId,
		ParentId:           parentId,
		UserInput:          userInput,
		UserInputEmbedding: userEmbedding,
		SystemResponse:     systemResponse,
		Source:             constant.SourceFineTuned,
	}
	if err := s.interactionRepo.Create(ctx, node); err != nil {
		s.logger.Warn("tutoring", "Cache save failed (non-critical)", map[string]interface{}{
			"error": err,
		})
		return ""
	}
	metrics.InteractionDepth.Observe(float64(node.Depth))
	return node.Id.String()
}
