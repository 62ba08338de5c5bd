package moderator

import (
	"ERecyclo/internal/core/ports"
	"ERecyclo/internal/shared/config"

	"github.com/rs/zerolog"
)

// HandlerDeps is everything a moderator handler may need.
type HandlerDeps struct {
	Cfg          *config.Config
	Users        ports.UserRepository
	Vendors      ports.VendorRepository
	Collectors   ports.CollectorRepository
	Products     ports.ProductRepository
	Verification ports.VerificationService
	Fraud        ports.FraudService
	Bot          ports.BotClientPort
	Bus          ports.EventBus
}

type (
	CommandHandlerConstructor  func(deps HandlerDeps, baseLogger *zerolog.Logger) ports.CommandHandler
	CallbackHandlerConstructor func(deps HandlerDeps, baseLogger *zerolog.Logger) ports.CallbackHandler
	// SubscriberConstructor wires a handler to bus topics by itself.
	SubscriberConstructor func(deps HandlerDeps, baseLogger *zerolog.Logger)
)

var (
	commandRegistry    []CommandHandlerConstructor
	callbackRegistry   []CallbackHandlerConstructor
	subscriberRegistry []SubscriberConstructor
)

// RegisterCommand is called by handlers in their init() function.
func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

// RegisterCallback is called by handlers in their init() function.
func RegisterCallback(constructor CallbackHandlerConstructor) {
	callbackRegistry = append(callbackRegistry, constructor)
}

// RegisterSubscriber is called by event listeners in their init() function.
func RegisterSubscriber(constructor SubscriberConstructor) {
	subscriberRegistry = append(subscriberRegistry, constructor)
}

// RegisterAllHandlers builds every registered handler and hands it to the router.
func RegisterAllHandlers(router *ModeratorRouter, deps HandlerDeps, baseLogger *zerolog.Logger) {
	log := baseLogger.With().Str("component", "moderator_registry").Logger()

	for _, constructor := range commandRegistry {
		router.RegisterCommandHandler(constructor(deps, baseLogger))
	}
	for _, constructor := range callbackRegistry {
		router.RegisterCallbackHandler(constructor(deps, baseLogger))
	}
	for _, constructor := range subscriberRegistry {
		constructor(deps, baseLogger)
	}

	log.Info().
		Int("commands", len(commandRegistry)).
		Int("callbacks", len(callbackRegistry)).
		Int("subscribers", len(subscriberRegistry)).
		Msg("Moderator handlers registered")
}
