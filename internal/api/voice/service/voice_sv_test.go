package voiceService

import (
	"Eventra/internal/api/planner"
	"Eventra/internal/api/shopping"
	shoppingService "Eventra/internal/api/shopping/service"
	"Eventra/internal/entity"
	"Eventra/pkg/audio"
	"Eventra/pkg/fuzzy"
	"Eventra/pkg/sessionstore"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ttsStub struct{}

func (t *ttsStub) GenerateAudio(text string) ([]byte, error) {
	return []byte("audio"), nil
}

type transcriberStub struct{}

func (t *transcriberStub) TranscribeBytes(_ context.Context, _ []byte, _ string) (string, error) {
	return "transcribed", nil
}

type plannerStub struct {
	failTrees bool
}

func (p *plannerStub) GenerateTrees(_ context.Context, session *entity.Session, _ string) error {
	if p.failTrees {
		return planner.ErrTreeGenerationFailed
	}
	session.PeopleTree = []entity.TreeNode{
		{Label: "Food", Children: []entity.TreeNode{{Label: "Pizza"}, {Label: "Cake"}}},
		{Label: "Drinks", Children: []entity.TreeNode{{Label: "Juice"}, {Label: "Bottled Water"}}},
		{Label: "Entertainment", Children: []entity.TreeNode{{Label: "DJ"}}},
		{Label: "Accommodation"},
	}
	session.PlaceTree = []entity.TreeNode{
		{Label: "Venue", Children: []entity.TreeNode{{Label: "Garden"}}},
	}
	return nil
}

func (p *plannerStub) GenerateShoppingList(_ context.Context, _ *entity.Session) (*planner.ShoppingListResult, error) {
	return &planner.ShoppingListResult{
		Items:         []string{"Bottled Water", "Folding Table"},
		PriceRanges:   map[string]string{},
		QuantityHints: map[string]int{},
	}, nil
}

func (p *plannerStub) TreesForSession(_ context.Context, _ planner.GenerateTreesRequest) (*planner.TreesResponse, error) {
	return nil, nil
}

func (p *plannerStub) SubmitForm(_ context.Context, _ planner.SubmitFormRequest) (*planner.FormResponse, error) {
	return nil, nil
}

func (p *plannerStub) GetSession(_ context.Context, _ string) (*planner.SessionResponse, error) {
	return nil, nil
}

type shoppingStub struct{}

var stubPrices = map[string]float64{
	"Bottled Water": 2.00,
	"Folding Table": 15.00,
}

func (s *shoppingStub) BuildCart(_ context.Context, session *entity.Session, list *planner.ShoppingListResult) (*entity.ShoppingCart, []string, error) {
	attendees := leadingInt(session.FormData["number of attendees"])
	duration := leadingInt(session.FormData["duration (hours)"])

	cart := &entity.ShoppingCart{}
	for _, item := range list.Items {
		amount := shoppingService.InferAmount(item, attendees, duration)
		detail := entity.CartItemDetail{
			Name:     item,
			Price:    stubPrices[item],
			Amount:   amount,
			Retailer: "StubMart",
		}
		cart.Items = append(cart.Items, entity.CartItem{
			RecommendedItem: detail,
			CheapestItem:    detail,
			BestRatingItem:  detail,
			FastestDelivery: detail,
		})
		cart.Price += detail.Price * float64(amount)
	}
	return cart, nil, nil
}

func (s *shoppingStub) RetailerBatches(_ *entity.ShoppingCart) []entity.RetailerBatch {
	return nil
}

func (s *shoppingStub) NegotiateSponsorship(_ context.Context, _ []entity.RetailerBatch, _ string) []entity.RetailerOffer {
	return nil
}

func (s *shoppingStub) StreamOffers(_ context.Context, _ string) (<-chan shopping.OfferEvent, error) {
	return nil, errors.New("not implemented")
}

func (s *shoppingStub) BuildCartForSession(_ context.Context, _ shopping.BuildCartRequest) (*shopping.CartResponse, error) {
	return nil, errors.New("not implemented")
}

func leadingInt(raw string) int {
	for _, field := range strings.Fields(raw) {
		if value, err := strconv.Atoi(field); err == nil {
			return value
		}
	}
	return 0
}

func newTestVoiceService(plannerStubImpl *plannerStub) (IVoiceService, sessionstore.Store) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := sessionstore.NewMemory()
	speaker := audio.NewSpeaker(&ttsStub{}, 64)

	svc := NewVoiceService(
		logger,
		store,
		speaker,
		&transcriberStub{},
		plannerStubImpl,
		&shoppingStub{},
		fuzzy.DefaultConfig(),
	)
	return svc, store
}

func TestStartVoice_GreetsAndAwaitsEventDescription(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})

	turn, err := svc.StartVoice(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PhaseEventType), turn.Phase)
	assert.NotEmpty(t, turn.Text)
	assert.NotEmpty(t, turn.AudioID)
	assert.True(t, turn.WaitForInput)
}

func TestVoiceFlow_EventDescriptionYieldsFixedCategories(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)

	turn, err := svc.ProcessVoiceInput(ctx, "s1", "I'm planning a birthday party")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PhaseCategorySelection), turn.Phase)
	assert.Equal(t, []string{"Food", "Drinks", "Entertainment", "Accommodation"}, turn.Data["categories"])
	assert.Equal(t, "I'm planning a birthday party", turn.TranscribedText)
}

func TestVoiceFlow_PerfectMatchesSkipConfirmation(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "a birthday party for my kid")
	require.NoError(t, err)

	turn, err := svc.ProcessVoiceInput(ctx, "s1", "food and drinks please")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PhaseSubcategorySelection), turn.Phase)
	assert.Equal(t, "Food", turn.Data["category"])
	assert.Equal(t, []string{"Pizza", "Cake"}, turn.Data["subcategories"])
}

func TestVoiceFlow_FuzzyMatchAsksForConfirmation(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "a birthday party")
	require.NoError(t, err)

	// Misspelled, so no containment hit; the fuzzy score lands in
	// the confirmation band.
	turn, err := svc.ProcessVoiceInput(ctx, "s1", "acommodation")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhaseCategoryConfirmation), turn.Phase)

	turn, err = svc.ProcessVoiceInput(ctx, "s1", "yes")
	require.NoError(t, err)

	// Accommodation has no subcategories, so the machine slides
	// straight into the completion check.
	assert.Equal(t, string(entity.PhaseCompletionCheck), turn.Phase)
}

func TestVoiceFlow_UnrecognizedCategoryReprompts(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "a birthday party")
	require.NoError(t, err)

	turn, err := svc.ProcessVoiceInput(ctx, "s1", "xyzzy plugh")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PhaseCategorySelection), turn.Phase)
	assert.True(t, turn.WaitForInput)
}

func TestVoiceFlow_UnrecognizedSubcategoryStaysOnCategory(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "a birthday party")
	require.NoError(t, err)

	turn, err := svc.ProcessVoiceInput(ctx, "s1", "food and drinks")
	require.NoError(t, err)
	assert.Equal(t, "Food", turn.Data["category"])

	// Gibberish matches no Food option, so the machine re-prompts for
	// Food instead of sliding on to Drinks.
	turn, err = svc.ProcessVoiceInput(ctx, "s1", "xyzzy plugh qwerty")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PhaseSubcategorySelection), turn.Phase)
	assert.Equal(t, "Food", turn.Data["category"])
	assert.Equal(t, []string{"Pizza", "Cake"}, turn.Data["subcategories"])
	assert.True(t, turn.WaitForInput)

	// A real answer still moves the loop along to the next category.
	turn, err = svc.ProcessVoiceInput(ctx, "s1", "pizza")
	require.NoError(t, err)
	assert.Equal(t, "Drinks", turn.Data["category"])
}

func TestVoiceFlow_NoRemainingCategoriesStaysInCompletionCheck(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)
	for _, input := range []string{
		"a birthday party",
		"food, drinks, entertainment and accommodation",
		"pizza",
		"juice",
		"dj",
	} {
		_, err = svc.ProcessVoiceInput(ctx, "s1", input)
		require.NoError(t, err)
	}

	turn, err := svc.ProcessVoiceInput(ctx, "s1", "what are the remaining ones?")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PhaseCompletionCheck), turn.Phase)
	assert.Contains(t, turn.Text, "ready to proceed")

	turn, err = svc.ProcessVoiceInput(ctx, "s1", "I'm done")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhaseFormCollection), turn.Phase)
	assert.Equal(t, "Address", turn.Data["field"])
}

func TestVoiceFlow_EndToEndPurchase(t *testing.T) {
	svc, store := newTestVoiceService(&plannerStub{})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "a birthday party in the garden")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "food and drinks")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "pizza please")
	require.NoError(t, err)

	turn, err := svc.ProcessVoiceInput(ctx, "s1", "bottled water")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhaseCompletionCheck), turn.Phase)

	turn, err = svc.ProcessVoiceInput(ctx, "s1", "I'm done")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhaseFormCollection), turn.Phase)
	assert.Equal(t, "Address", turn.Data["field"])

	_, err = svc.ProcessVoiceInput(ctx, "s1", "12 Main Street")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "five hundred dollars")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "next saturday")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "four hours")
	require.NoError(t, err)

	turn, err = svc.ProcessVoiceInput(ctx, "s1", "twenty people")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhaseListReadoutPrompt), turn.Phase)

	// 20 attendees over 4 hours: water is consumable (20 x 1 cycle),
	// the table is a one-off. 20*2.00 + 1*15.00 = 55.00.
	assert.Equal(t, 55.00, turn.Data["total"])

	turn, err = svc.ProcessVoiceInput(ctx, "s1", "yes please")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhasePurchaseConfirmation), turn.Phase)
	assert.Contains(t, turn.Text, "55.00")

	turn, err = svc.ProcessVoiceInput(ctx, "s1", "yes")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhaseDone), turn.Phase)
	assert.Equal(t, true, turn.Data["purchased"])
	assert.False(t, turn.WaitForInput)

	session, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, session.VoiceState.Cart)
	assert.Len(t, session.VoiceState.Cart.Items, 2)
	assert.Equal(t, 55.00, session.VoiceState.Cart.Price)
	assert.Equal(t, "500 dollars", session.FormData["budget"])
	assert.Equal(t, "20 people", session.FormData["number of attendees"])
}

func TestVoiceFlow_DecliningReadoutStillConfirmsTotal(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)
	for _, input := range []string{
		"a small birthday party",
		"food",
		"cake",
		"done",
		"12 Main Street",
		"200 dollars",
		"friday",
		"four hours",
		"ten people",
	} {
		_, err = svc.ProcessVoiceInput(ctx, "s1", input)
		require.NoError(t, err)
	}

	turn, err := svc.ProcessVoiceInput(ctx, "s1", "no thanks")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhasePurchaseConfirmation), turn.Phase)

	turn, err = svc.ProcessVoiceInput(ctx, "s1", "no")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhaseDone), turn.Phase)
	assert.Equal(t, false, turn.Data["purchased"])
}

func TestVoiceFlow_GenerationFailureSpeaksErrorAndKeepsState(t *testing.T) {
	svc, store := newTestVoiceService(&plannerStub{failTrees: true})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)

	turn, err := svc.ProcessVoiceInput(ctx, "s1", "a birthday party")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PhaseError), turn.Phase)
	assert.Contains(t, turn.Text, "something went wrong")

	// The stored session still awaits the event description.
	session, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseEventType, session.VoiceState.Phase)
}

func TestVoiceFlow_UnclearYesNoReprompts(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})
	ctx := context.Background()

	_, err := svc.StartVoice(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "a birthday party")
	require.NoError(t, err)
	_, err = svc.ProcessVoiceInput(ctx, "s1", "acommodation")
	require.NoError(t, err)

	turn, err := svc.ProcessVoiceInput(ctx, "s1", "the weather is nice")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PhaseCategoryConfirmation), turn.Phase)
	assert.True(t, turn.WaitForInput)
}

func TestProcessVoiceInput_EmptyInputRejected(t *testing.T) {
	svc, _ := newTestVoiceService(&plannerStub{})

	_, err := svc.ProcessVoiceInput(context.Background(), "s1", "   ")
	assert.Error(t, err)
}
