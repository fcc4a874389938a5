package assistant

import "context"

// Repository persists assistant records. Everything is scoped to a single
// user; there is no cross-user read path.
type Repository interface {
	CreateChat(ctx context.Context, rec *ChatRecord) error
	ListChatsByUser(ctx context.Context, userID string) ([]*ChatRecord, error)

	CreateSymptomCheck(ctx context.Context, sc *SymptomCheck) error
	ListSymptomChecksByUser(ctx context.Context, userID string) ([]*SymptomCheck, error)

	CreateSession(ctx context.Context, s *HealthSession) error
	GetSession(ctx context.Context, id string) (*HealthSession, error)
	UpdateSession(ctx context.Context, s *HealthSession) error
	ListSessionsByUser(ctx context.Context, userID string) ([]*HealthSession, error)

	CreateFaceAnalysis(ctx context.Context, fa *FaceAnalysis) error
	ListFaceAnalysesByUser(ctx context.Context, userID string) ([]*FaceAnalysis, error)
}
