package contract

import (
	"context"

	"ai-tutoring-be/internal/entity"

	"github.com/google/uuid"
)

// InteractionRepository is the typed wrapper around the tutoring-tree
// collection of the vector store.
type InteractionRepository interface {
	// Create stores a new node. Depth is computed here: 1 when the node
	// has no parent, parent.Depth+1 otherwise. Creating a node whose
	// depth would exceed the configured maximum fails with a
	// DepthExceeded error; a missing parent fails with NotFound.
	Create(ctx context.Context, node *entity.InteractionNode) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.InteractionNode, error)

	// SearchChildren looks for the best match among the exact sibling
	// group (same questionId, same parent; nil parent means the
	// question's direct children). Misses return IsHit=false, not an error.
	SearchChildren(ctx context.Context, questionId uuid.UUID, parentId *uuid.UUID, embedding []float32, threshold float64) (*entity.ChildMatch, error)

	// ConversationPath walks parent links from nodeId back to the root
	// and returns the exchanges in root-first order.
	ConversationPath(ctx context.Context, questionId uuid.UUID, nodeId *uuid.UUID) (*entity.ConversationPath, error)

	Count(ctx context.Context) (int64, error)
}
