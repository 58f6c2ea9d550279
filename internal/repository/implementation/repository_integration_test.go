package implementation_test

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/apperror"
	"ai-tutoring-be/internal/repository/implementation"
	"ai-tutoring-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const embeddingDims = 1536

// unitVector returns a normalized basis vector. Distinct axes are
// orthogonal, so cosine similarity is exactly 1 for the same axis and
// 0 otherwise.
func unitVector(axis int) []float32 {
	v := make([]float32, embeddingDims)
	v[axis] = 1
	return v
}

func connectDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	return gormDB
}

func cleanupQuestion(t *testing.T, db *gorm.DB, questionId uuid.UUID) {
	t.Helper()
	db.Exec("DELETE FROM interaction_nodes WHERE question_id = ?", questionId)
	db.Exec("DELETE FROM questions WHERE id = ?", questionId)
}

func TestQuestionRepositoryRoundTrip(t *testing.T) {
	db := connectDB(t)
	repo := implementation.NewQuestionRepository(db)
	ctx := context.Background()

	question := &entity.Question{
		QuestionText:     "What is the derivative of x^2?",
		ReformulatedText: "derivative of x squared",
		AnswerText:       "2x",
		Embedding:        unitVector(0),
		Lesson:           "calculus",
		Source:           "integration-test",
		Confidence:       0.9,
	}
	require.NoError(t, repo.Create(ctx, question))
	require.NotEqual(t, uuid.Nil, question.Id)
	defer cleanupQuestion(t, db, question.Id)

	t.Run("SearchSimilarReturnsSelfFirst", func(t *testing.T) {
		scored, err := repo.SearchSimilar(ctx, unitVector(0), 5, 0, nil)
		require.NoError(t, err)
		require.NotEmpty(t, scored)
		assert.Equal(t, question.Id, scored[0].Question.Id)
		assert.InDelta(t, 1.0, scored[0].Similarity, 1e-6)
	})

	t.Run("SearchSimilarRespectsThreshold", func(t *testing.T) {
		// Orthogonal query: similarity to our row is 0, below threshold.
		scored, err := repo.SearchSimilar(ctx, unitVector(1), 5, 0.5, &entity.SearchFilters{Source: "integration-test"})
		require.NoError(t, err)
		assert.Empty(t, scored)
	})

	t.Run("SearchSimilarAppliesFilters", func(t *testing.T) {
		scored, err := repo.SearchSimilar(ctx, unitVector(0), 5, 0.9, &entity.SearchFilters{Lesson: "geometry"})
		require.NoError(t, err)
		assert.Empty(t, scored)
	})

	t.Run("IncrementUsage", func(t *testing.T) {
		require.NoError(t, repo.IncrementUsage(ctx, question.Id))
		got, err := repo.GetByID(ctx, question.Id)
		require.NoError(t, err)
		assert.Equal(t, 1, got.UsageCount)
	})

	t.Run("AddFeedback", func(t *testing.T) {
		counters, err := repo.AddFeedback(ctx, question.Id, true)
		require.NoError(t, err)
		assert.Equal(t, 1, counters.PositiveFeedback)
		assert.Equal(t, 0, counters.NegativeFeedback)
		assert.Equal(t, 1.0, counters.FeedbackScore)

		counters, err = repo.AddFeedback(ctx, question.Id, false)
		require.NoError(t, err)
		assert.Equal(t, 1, counters.NegativeFeedback)
		assert.Equal(t, 0.5, counters.FeedbackScore)
	})

	t.Run("AddFeedbackUnknownQuestion", func(t *testing.T) {
		_, err := repo.AddFeedback(ctx, uuid.New(), true)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}

func TestInteractionRepositorySiblingScoping(t *testing.T) {
	db := connectDB(t)
	questions := implementation.NewQuestionRepository(db)
	interactions := implementation.NewInteractionRepository(db, 5)
	ctx := context.Background()

	question := &entity.Question{
		QuestionText: "Solve 2x + 3 = 7",
		AnswerText:   "x = 2",
		Embedding:    unitVector(0),
		Source:       "integration-test",
		Confidence:   0.9,
	}
	require.NoError(t, questions.Create(ctx, question))
	defer cleanupQuestion(t, db, question.Id)

	root := &entity.InteractionNode{
		QuestionId:         question.Id,
		UserInput:          "I don't understand",
		UserInputEmbedding: unitVector(1),
		SystemResponse:     "Let's isolate x step by step.",
		Source:             "integration-test",
	}
	require.NoError(t, interactions.Create(ctx, root))
	assert.Equal(t, 1, root.Depth)

	child := &entity.InteractionNode{
		QuestionId:         question.Id,
		ParentId:           &root.Id,
		UserInput:          "why subtract 3",
		UserInputEmbedding: unitVector(2),
		SystemResponse:     "Subtracting 3 keeps the equation balanced.",
		Source:             "integration-test",
	}
	require.NoError(t, interactions.Create(ctx, child))
	assert.Equal(t, 2, child.Depth)

	t.Run("RootLevelHit", func(t *testing.T) {
		match, err := interactions.SearchChildren(ctx, question.Id, nil, unitVector(1), 0.5)
		require.NoError(t, err)
		require.True(t, match.IsHit)
		assert.Equal(t, root.Id, match.MatchedNode.Id)
		assert.InDelta(t, 1.0, match.Score, 1e-6)
	})

	t.Run("ChildNotVisibleAtRootLevel", func(t *testing.T) {
		// child's embedding searched among the question's direct
		// children must not surface the deeper node.
		match, err := interactions.SearchChildren(ctx, question.Id, nil, unitVector(2), 0.5)
		require.NoError(t, err)
		assert.False(t, match.IsHit)
	})

	t.Run("RootNotVisibleUnderItself", func(t *testing.T) {
		match, err := interactions.SearchChildren(ctx, question.Id, &root.Id, unitVector(1), 0.5)
		require.NoError(t, err)
		assert.False(t, match.IsHit)
	})

	t.Run("ChildHitUnderParent", func(t *testing.T) {
		match, err := interactions.SearchChildren(ctx, question.Id, &root.Id, unitVector(2), 0.5)
		require.NoError(t, err)
		require.True(t, match.IsHit)
		assert.Equal(t, child.Id, match.MatchedNode.Id)
		assert.Equal(t, 2, match.MatchedNode.Depth)
	})

	t.Run("ConversationPathOrdering", func(t *testing.T) {
		path, err := interactions.ConversationPath(ctx, question.Id, &child.Id)
		require.NoError(t, err)
		assert.Equal(t, question.QuestionText, path.QuestionText)
		assert.Equal(t, question.AnswerText, path.AnswerText)
		require.Len(t, path.Steps, 2)
		assert.Equal(t, root.Id, path.Steps[0].Id)
		assert.Equal(t, child.Id, path.Steps[1].Id)
	})
}

func TestInteractionRepositoryDepthLimit(t *testing.T) {
	db := connectDB(t)
	questions := implementation.NewQuestionRepository(db)
	interactions := implementation.NewInteractionRepository(db, 2)
	ctx := context.Background()

	question := &entity.Question{
		QuestionText: "What is a prime number?",
		AnswerText:   "A number divisible only by 1 and itself.",
		Embedding:    unitVector(0),
		Source:       "integration-test",
		Confidence:   0.9,
	}
	require.NoError(t, questions.Create(ctx, question))
	defer cleanupQuestion(t, db, question.Id)

	root := &entity.InteractionNode{
		QuestionId:         question.Id,
		UserInput:          "what does divisible mean",
		UserInputEmbedding: unitVector(1),
		SystemResponse:     "It divides with no remainder.",
	}
	require.NoError(t, interactions.Create(ctx, root))

	child := &entity.InteractionNode{
		QuestionId:         question.Id,
		ParentId:           &root.Id,
		UserInput:          "still unsure",
		UserInputEmbedding: unitVector(2),
		SystemResponse:     "Think of sharing candies evenly.",
	}
	require.NoError(t, interactions.Create(ctx, child))

	grandchild := &entity.InteractionNode{
		QuestionId:         question.Id,
		ParentId:           &child.Id,
		UserInput:          "one more step",
		UserInputEmbedding: unitVector(3),
		SystemResponse:     "should not be stored",
	}
	err := interactions.Create(ctx, grandchild)
	assert.True(t, apperror.IsKind(err, apperror.KindDepthExceeded))
}
