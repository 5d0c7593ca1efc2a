package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/wellness_client/internal/controller/state"
	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	status := "🔒 Вход не выполнен. Используйте /login"
	if h.authService.LoggedIn() {
		status = "✅ Вы вошли в аккаунт эксперта"
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👋 Панель управления планами\n\n"+
			"Окружение: %s\n%s\n\n"+
			"Список команд: /help", h.environment, status), nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"📖 Команды:\n\n"+
			"/login - войти по email и паролю\n"+
			"/logout - выйти\n"+
			"/plans - мои планы\n"+
			"/newplan - создать план\n"+
			"/refresh - обновить список планов\n"+
			"/cancel - отменить текущее действие", nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.", nil)
}

// HandleLogin начинает диалог входа
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateLoginEmail)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "📧 Введите email аккаунта эксперта:", nil)
}

// HandleLogout обрабатывает команду /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if err := h.authService.Logout(ctx); err != nil {
		h.logger.Error("Failed to log out", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "⚠️ Сессия завершена, но сохранить это не удалось.")
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, "👋 Вы вышли из аккаунта.", nil)
}

// HandlePlans показывает планы с кнопками управления
func (h *Handlers) HandlePlans(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if !h.requireSession(ctx, b, chatID) {
		return
	}

	plans, err := h.planService.ListMine(ctx)
	if err != nil {
		h.sendError(ctx, b, chatID, ErrorText(err))
		return
	}

	if len(plans) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 У вас пока нет планов.\n\nСоздать: /newplan", nil)
		return
	}

	for i := range plans {
		h.sendMessage(ctx, b, chatID, FormatPlan(&plans[i]), PlanKeyboard(&plans[i]))
	}
}

// HandleRefresh перечитывает список планов с сервера
func (h *Handlers) HandleRefresh(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if !h.requireSession(ctx, b, chatID) {
		return
	}

	plans, err := h.planService.ListMine(ctx)
	if err != nil {
		h.sendError(ctx, b, chatID, ErrorText(err))
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🔄 Список обновлён: %d планов.", len(plans)), nil)
}

// HandleNewPlan начинает диалог создания плана
func (h *Handlers) HandleNewPlan(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if !h.requireSession(ctx, b, chatID) {
		return
	}

	telegramID := update.Message.From.ID
	form := service.NewPlanForm()
	h.stateManager.ClearState(telegramID)
	h.stateManager.StartForm(telegramID, state.StatePlanName, form)

	h.logger.Info("Starting plan creation", zap.Int64("telegram_id", telegramID))

	text, keyboard := stepPrompt(state.StatePlanName, form)
	h.sendMessage(ctx, b, chatID, "📝 Новый план\n\n"+text, keyboard)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("Text message",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateNone:
		return
	case state.StateLoginEmail:
		h.handleLoginEmail(ctx, b, update)
	case state.StateLoginPassword:
		h.handleLoginPassword(ctx, b, update)
	case state.StateEditPlanPrice:
		h.handleEditPrice(ctx, b, update)
	case state.StatePlanConfirm:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Нажмите «Создать» или «Отмена» под сводкой плана.", nil)
	default:
		h.handlePlanInput(ctx, b, update.Message.Chat.ID, telegramID, update.Message.Text)
	}
}

func (h *Handlers) handleLoginEmail(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	email := strings.TrimSpace(update.Message.Text)

	if !strings.Contains(email, "@") {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Это не похоже на email. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetValue(telegramID, state.KeyEmail, email)
	h.stateManager.SetState(telegramID, state.StateLoginPassword)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "🔑 Введите пароль (сообщение будет удалено):", nil)
}

func (h *Handlers) handleLoginPassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	// Пароль не должен оставаться в истории чата
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: update.Message.ID}); err != nil {
		h.logger.Warn("Failed to delete password message", zap.Error(err))
	}

	email, _ := h.stateManager.GetValue(telegramID, state.KeyEmail)
	h.stateManager.ClearState(telegramID)

	user, err := h.authService.Login(ctx, email, password)
	if err != nil {
		h.sendError(ctx, b, chatID, ErrorText(err)+"\n\nПопробовать снова: /login")
		return
	}

	text := fmt.Sprintf("✅ Добро пожаловать, %s!", user.Name)
	if !user.IsExpert() {
		text += "\n\n⚠️ Этот аккаунт не является аккаунтом эксперта, управление планами может быть недоступно."
	}
	h.sendMessage(ctx, b, chatID, text, nil)
}

// handlePlanInput применяет ввод к текущему шагу диалога создания плана
func (h *Handlers) handlePlanInput(ctx context.Context, b *bot.Bot, chatID, telegramID int64, input string) {
	current := h.stateManager.GetState(telegramID)

	var (
		next    state.UserState
		problem string
		form    service.PlanForm
	)
	ok := h.stateManager.UpdateForm(telegramID, func(f *service.PlanForm) {
		next, problem = advancePlan(f, current, input, h.planService.Validate)
		form = *f
	})
	if !ok {
		h.logger.Warn("Plan input without form", zap.String("state", string(current)))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Диалог устарел. Начните заново: /newplan")
		return
	}

	h.stateManager.SetState(telegramID, next)

	text, keyboard := stepPrompt(next, &form)
	if problem != "" {
		text = problem + "\n\n" + text
	}
	h.sendMessage(ctx, b, chatID, text, keyboard)
}

// handleEditPrice сохраняет новую цену плана
func (h *Handlers) handleEditPrice(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	planID, _ := h.stateManager.GetValue(telegramID, state.KeyPlanID)
	plan, found := h.planService.Find(planID)
	if !found {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, ErrorText(service.ErrPlanNotFound))
		return
	}

	form := service.PlanFormFrom(plan)
	applyPrice(form, update.Message.Text)

	updated, err := h.planService.Update(ctx, planID, form)
	if err != nil && updated == nil {
		// состояние сохраняем, чтобы можно было ввести цену ещё раз
		h.sendError(ctx, b, chatID, ErrorText(err)+"\n\nВведите цену ещё раз или /cancel")
		return
	}
	h.stateManager.ClearState(telegramID)

	if err != nil {
		h.sendError(ctx, b, chatID, ErrorText(err))
		return
	}
	h.sendMessage(ctx, b, chatID, "✅ Цена обновлена\n\n"+FormatPlan(updated), PlanKeyboard(updated))
}
