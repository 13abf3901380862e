package plannerService

import (
	"Eventra/internal/api/planner"
	"Eventra/internal/entity"
	"Eventra/pkg/gemini"
	chatGPT "Eventra/pkg/openai"
	"Eventra/pkg/sessionstore"
	"context"

	"github.com/sirupsen/logrus"
)

type IPlannerService interface {
	GenerateTrees(ctx context.Context, session *entity.Session, description string) error
	GenerateShoppingList(ctx context.Context, session *entity.Session) (*planner.ShoppingListResult, error)

	TreesForSession(ctx context.Context, req planner.GenerateTreesRequest) (*planner.TreesResponse, error)
	SubmitForm(ctx context.Context, req planner.SubmitFormRequest) (*planner.FormResponse, error)
	GetSession(ctx context.Context, sessionID string) (*planner.SessionResponse, error)
}

type plannerService struct {
	log     *logrus.Logger
	store   sessionstore.Store
	gemini  gemini.IGemini
	chatGPT chatGPT.IChatGPT
}

func NewPlannerService(
	log *logrus.Logger,
	store sessionstore.Store,
	geminiClient gemini.IGemini,
	chatGPTClient chatGPT.IChatGPT,
) IPlannerService {
	return &plannerService{
		log:     log,
		store:   store,
		gemini:  geminiClient,
		chatGPT: chatGPTClient,
	}
}
