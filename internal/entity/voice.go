package entity

// Phase is a named state of the voice dialogue state machine.
type Phase string

const (
	PhaseGreeting             Phase = "greeting"
	PhaseEventType            Phase = "event_type"
	PhaseCategorySelection    Phase = "category_selection"
	PhaseCategoryConfirmation Phase = "category_confirmation"
	PhaseSubcategorySelection Phase = "subcategory_selection"
	PhaseCompletionCheck      Phase = "completion_check"
	PhaseFormCollection       Phase = "form_collection"
	PhaseListReadoutPrompt    Phase = "shopping_list_readout_prompt"
	PhaseListReadout          Phase = "shopping_list_readout"
	PhasePurchaseConfirmation Phase = "purchase_confirmation"
	PhaseDone                 Phase = "done"
	PhaseError                Phase = "error"
)

type FormField struct {
	Label string  `json:"label"`
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

type PendingConfirmation struct {
	Type  string   `json:"type"`
	Items []string `json:"items"`
}

// VoiceState is the single mutable record the phase machine drives.
// Entering marks that the current phase's entry action has not run
// yet; the driving loop re-dispatches until a phase produces a spoken
// turn, so multi-step advancement never recurses.
type VoiceState struct {
	Phase                Phase                `json:"phase"`
	Entering             bool                 `json:"entering"`
	EventDescription     string               `json:"event_description,omitempty"`
	SelectedCategories   []string             `json:"selected_categories"`
	CurrentCategoryIndex int                  `json:"current_category_index"`
	Pending              *PendingConfirmation `json:"pending_confirmation,omitempty"`
	FormFields           []FormField          `json:"form_fields"`
	FormFieldIndex       int                  `json:"form_field_index"`
	ShoppingListItems    []string             `json:"shopping_list_items"`
	Cart                 *ShoppingCart        `json:"cart,omitempty"`
}

// NewVoiceState returns a fresh state positioned before the greeting,
// with the fixed five-field form schema.
func NewVoiceState() *VoiceState {
	return &VoiceState{
		Phase:    PhaseGreeting,
		Entering: true,
		FormFields: []FormField{
			{Label: "Address", Key: "address"},
			{Label: "Budget", Key: "budget"},
			{Label: "Date", Key: "date"},
			{Label: "Duration (hours)", Key: "duration"},
			{Label: "Number of attendees", Key: "numberOfAttendees"},
		},
	}
}
