package service

import (
	"log/slog"
	"time"

	"realestate/internal/model"
	"realestate/internal/utils"
)

const (
	flowGreeting       = "Hello! Welcome to RealEstateApp. I’m here to help you find the perfect property. Are you looking to buy or rent?"
	flowBudgetQuestion = "Great! What’s your budget range?"
	flowCityQuestion   = "Got it! Which city are you interested in?"
	flowProcessing     = "Thanks for your input! I’ll find properties matching your requirements..."
	flowSuccess        = "Congratulations! Jo ghar aap dhoondna chahte the, aapko woh mil jayega. Is app ke through yahan aapke har problem aur need ko pura kiya jayega."
)

var (
	actionOptions = []string{"Buy", "Rent"}
	budgetOptions = []string{"AED 0 - 500,000", "AED 500,000+"}
	cityOptions   = []string{"Islamabad", "Lahore"}
)

// FlowTimings are the delays of the reveal that follows the city answer
type FlowTimings struct {
	Typing         time.Duration // pending entry before the processing message
	Processing     time.Duration // processing message to results ready
	Reveal         time.Duration // success message to results visible
	SuccessVisible time.Duration // how long the success message stays up
}

// DefaultFlowTimings returns the delays used by the mobile client
func DefaultFlowTimings() FlowTimings {
	return FlowTimings{
		Typing:         600 * time.Millisecond,
		Processing:     time.Second,
		Reveal:         2 * time.Second,
		SuccessVisible: 1500 * time.Millisecond,
	}
}

// Flow is the scripted buy/rent, budget, city conversation. All methods
// must run on the scheduler's loop.
type Flow struct {
	sched        Scheduler
	messages     *MessageList
	materializer *Materializer
	timings      FlowTimings
	publish      EventSink
	logger       *slog.Logger

	step           model.ConversationStep
	options        []string
	optionsVisible bool
	chatVisible    bool
	successMessage string
	successVisible bool
	results        []model.ResultRecord
	resultsVisible bool

	action string
	budget string
	city   string
}

// NewFlow creates a flow in the AwaitingAction step. Call Start to greet.
func NewFlow(sched Scheduler, materializer *Materializer, timings FlowTimings, publish EventSink, logger *slog.Logger) *Flow {
	if publish == nil {
		publish = discardEvents
	}
	if materializer == nil {
		materializer = NewMaterializer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{
		sched:        sched,
		messages:     NewMessageList(model.ChannelFlow, publish),
		materializer: materializer,
		timings:      timings,
		publish:      publish,
		logger:       logger.With("component", "flow"),
		step:         model.StepAwaitingAction,
		chatVisible:  true,
		results:      []model.ResultRecord{},
	}
}

// Start posts the greeting and offers Buy/Rent
func (f *Flow) Start() {
	f.messages.System(flowGreeting)
	f.setOptions(actionOptions)
}

// Submit feeds the label of the activated option into the flow
func (f *Flow) Submit(selection string) model.ConversationEffect {
	switch f.step {
	case model.StepAwaitingAction:
		if !utils.EqualsAnyFold(selection, "buy", "rent") {
			return f.effect(false)
		}
		f.action = selection
		f.messages.User(selection)
		f.messages.System(flowBudgetQuestion)
		f.setOptions(budgetOptions)
		f.advance(model.StepAwaitingBudget)

	case model.StepAwaitingBudget:
		f.budget = selection
		f.messages.User(selection)
		f.messages.System(flowCityQuestion)
		f.setOptions(cityOptions)
		f.advance(model.StepAwaitingCity)

	case model.StepAwaitingCity:
		f.city = selection
		f.messages.User(selection)
		f.hideOptions()
		f.advance(model.StepProcessing)
		f.messages.ShowPending()
		f.sched.After(f.timings.Typing, f.announceProcessing)

	default:
		return f.effect(false)
	}

	return f.effect(true)
}

func (f *Flow) announceProcessing() {
	if !f.sched.Alive() {
		return
	}
	f.messages.Reveal(flowProcessing)
	f.sched.After(f.timings.Processing, f.materialize)
}

func (f *Flow) materialize() {
	if !f.sched.Alive() {
		f.logger.Warn("Session closed before results were ready", "city", f.city)
		return
	}

	f.results = f.materializer.Materialize(f.city)
	f.resultsVisible = false
	f.chatVisible = false
	f.messages.System(flowSuccess)
	f.successMessage = flowSuccess
	f.successVisible = true

	f.publish(model.ChatEvent{
		Channel: model.ChannelFlow,
		Type:    model.EventSuccessMessage,
		Data: map[string]any{
			"message":      flowSuccess,
			"visible":      true,
			"chat_visible": false,
		},
	})
	f.logger.Debug("Results materialized", "city", f.city, "count", len(f.results))

	f.sched.After(f.timings.SuccessVisible, f.hideSuccess)
	f.sched.After(f.timings.Reveal, f.revealResults)
}

func (f *Flow) hideSuccess() {
	if !f.sched.Alive() {
		return
	}
	f.successVisible = false
	f.publish(model.ChatEvent{
		Channel: model.ChannelFlow,
		Type:    model.EventSuccessMessage,
		Data:    map[string]any{"message": f.successMessage, "visible": false},
	})
}

func (f *Flow) revealResults() {
	if !f.sched.Alive() {
		return
	}
	f.resultsVisible = true
	f.publish(model.ChatEvent{
		Channel: model.ChannelFlow,
		Type:    model.EventResults,
		Data: map[string]any{
			"results": f.Results(),
			"visible": true,
		},
	})
	f.advance(model.StepDone)
}

// Step returns the current step
func (f *Flow) Step() model.ConversationStep {
	return f.step
}

// Results returns a copy of the materialized records
func (f *Flow) Results() []model.ResultRecord {
	out := make([]model.ResultRecord, len(f.results))
	copy(out, f.results)
	return out
}

// Messages exposes the transcript
func (f *Flow) Messages() *MessageList {
	return f.messages
}

// Snapshot returns the observable state of the flow
func (f *Flow) Snapshot() model.FlowSnapshot {
	return model.FlowSnapshot{
		Step:           f.step,
		Entries:        f.messages.Entries(),
		ChatVisible:    f.chatVisible,
		Options:        append([]string(nil), f.options...),
		OptionsVisible: f.optionsVisible,
		SuccessMessage: f.successMessage,
		SuccessVisible: f.successVisible,
		Results:        f.Results(),
		ResultsVisible: f.resultsVisible,
		Action:         f.action,
		Budget:         f.budget,
		City:           f.city,
	}
}

// advance moves forward only; earlier steps are ignored
func (f *Flow) advance(to model.ConversationStep) {
	if to <= f.step {
		return
	}
	from := f.step
	f.step = to
	f.publish(model.ChatEvent{
		Channel: model.ChannelFlow,
		Type:    model.EventStep,
		Data:    map[string]any{"from": from.String(), "to": to.String()},
	})
}

func (f *Flow) setOptions(options []string) {
	f.options = append([]string(nil), options...)
	f.optionsVisible = true
	f.publishOptions()
}

func (f *Flow) hideOptions() {
	f.options = nil
	f.optionsVisible = false
	f.publishOptions()
}

func (f *Flow) publishOptions() {
	f.publish(model.ChatEvent{
		Channel: model.ChannelFlow,
		Type:    model.EventOptions,
		Data: map[string]any{
			"options": append([]string(nil), f.options...),
			"visible": f.optionsVisible,
		},
	})
}

func (f *Flow) effect(accepted bool) model.ConversationEffect {
	return model.ConversationEffect{
		Accepted:       accepted,
		Step:           f.step,
		Options:        append([]string(nil), f.options...),
		OptionsVisible: f.optionsVisible,
	}
}
