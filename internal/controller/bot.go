package controller

import (
	"context"

	"github.com/Freeeeeet/wellness_client/internal/controller/handlers"
	"github.com/Freeeeeet/wellness_client/internal/controller/state"
	"github.com/Freeeeeet/wellness_client/internal/environment"
	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	authService *service.AuthService,
	planService *service.PlanService,
	env environment.Name,
	logger *zap.Logger,
) *BotController {
	cmdHandlers := handlers.NewHandlers(
		authService,
		planService,
		env,
		state.NewManager(),
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)

	// Управление планами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/plans", bot.MatchTypeExact, c.handlers.HandlePlans)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newplan", bot.MatchTypeExact, c.handlers.HandleNewPlan)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/refresh", bot.MatchTypeExact, c.handlers.HandleRefresh)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "login", Description: "🔑 Войти"},
		{Command: "logout", Description: "🚪 Выйти"},
		{Command: "plans", Description: "📋 Мои планы"},
		{Command: "newplan", Description: "➕ Создать план"},
		{Command: "refresh", Description: "🔄 Обновить список планов"},
		{Command: "cancel", Description: "✖️ Отменить действие"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start блокирует до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
}
