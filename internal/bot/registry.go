package bot

import (
	"RelayBot/internal/core/ports"
	"RelayBot/internal/core/services"
	"RelayBot/internal/core/verification"
	"RelayBot/internal/shared/config"

	"github.com/rs/zerolog"
)

// Deps is everything a handler may need. main.go builds it once.
type Deps struct {
	Cfg        *config.Config
	Bot        ports.BotClientPort
	Admins     *services.AdminRegistry
	Sessions   *services.SessionStore
	Renderer   *services.Renderer
	Validator  *services.SubmissionValidator
	Dispatcher *services.BroadcastDispatcher
	Scheduler  *verification.Scheduler
	Notifier   *services.UserNotifier
	Bus        ports.EventBus
	Pending    *PendingInputs
}

// --- Define types for handler "constructors" ---
// This allows us to pass dependencies from main.go

type CommandHandlerConstructor func(deps *Deps, baseLogger *zerolog.Logger) ports.CommandHandler
type CallbackHandlerConstructor func(deps *Deps, baseLogger *zerolog.Logger) ports.CallbackHandler
type MessageHandlerConstructor func(deps *Deps, baseLogger *zerolog.Logger) ports.MessageHandler
type InputHandlerConstructor func(deps *Deps, baseLogger *zerolog.Logger) ports.InputHandler

// SubscriberConstructor returns the topic and the handler to attach to it.
type SubscriberConstructor func(deps *Deps, baseLogger *zerolog.Logger) (string, ports.EventHandler)

// --- Create the global registries ---
var (
	commandRegistry    []CommandHandlerConstructor
	callbackRegistry   []CallbackHandlerConstructor
	inputRegistry      []InputHandlerConstructor
	subscriberRegistry []SubscriberConstructor
	messageHandler     MessageHandlerConstructor
)

// RegisterCommand is called by handlers in their init() function
func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

// RegisterCallback is called by callback handlers in their init()
func RegisterCallback(constructor CallbackHandlerConstructor) {
	callbackRegistry = append(callbackRegistry, constructor)
}

// RegisterInput is called by prompt-answer handlers in their init()
func RegisterInput(constructor InputHandlerConstructor) {
	inputRegistry = append(inputRegistry, constructor)
}

// RegisterSubscriber is called by event bus consumers in their init()
func RegisterSubscriber(constructor SubscriberConstructor) {
	subscriberRegistry = append(subscriberRegistry, constructor)
}

// RegisterMessage is called by the message handler
func RegisterMessage(constructor MessageHandlerConstructor) {
	// We only allow one global message handler
	messageHandler = constructor
}

// RegisterAllHandlers is the single function called by main.go
// It builds all registered handlers and passes them to the router.
func RegisterAllHandlers(deps *Deps, router *Router, baseLogger *zerolog.Logger) {
	log := baseLogger.With().Str("component", "handler_registry").Logger()

	for _, constructor := range commandRegistry {
		router.RegisterCommandHandler(constructor(deps, baseLogger))
	}

	for _, constructor := range callbackRegistry {
		router.RegisterCallbackHandler(constructor(deps, baseLogger))
	}

	for _, constructor := range inputRegistry {
		router.RegisterInputHandler(constructor(deps, baseLogger))
	}

	for _, constructor := range subscriberRegistry {
		topic, handler := constructor(deps, baseLogger)
		deps.Bus.Subscribe(topic, handler)
		log.Info().Str("topic", topic).Msg("Registered event subscriber")
	}

	// Register the single message handler
	if messageHandler != nil {
		router.SetMessageHandler(messageHandler(deps, baseLogger))
		log.Info().Msg("Registered main message handler")
	}
}
