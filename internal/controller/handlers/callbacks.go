package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/wellness_client/internal/controller/state"
	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCallbackQuery маршрутизирует нажатия на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}
	if query.Message.Message == nil {
		h.answerCallback(ctx, b, query.ID, "Сообщение устарело")
		return
	}

	chatID := query.Message.Message.Chat.ID
	data := query.Data

	h.logger.Debug("Callback received",
		zap.Int64("telegram_id", query.From.ID),
		zap.String("data", data))

	switch {
	case strings.HasPrefix(data, PlanInput):
		h.answerCallback(ctx, b, query.ID, "")
		h.handlePlanInput(ctx, b, chatID, query.From.ID, strings.TrimPrefix(data, PlanInput))
	case data == CreatePlanYes:
		h.handleCreatePlan(ctx, b, query, chatID)
	case data == CreatePlanNo:
		h.stateManager.ClearState(query.From.ID)
		h.answerCallback(ctx, b, query.ID, "Отменено")
		h.sendMessage(ctx, b, chatID, "✅ Создание плана отменено.", nil)
	case strings.HasPrefix(data, TogglePlan):
		h.handleToggle(ctx, b, query, chatID)
	case strings.HasPrefix(data, EditPrice):
		h.handleEditPriceStart(ctx, b, query, chatID)
	case strings.HasPrefix(data, DeletePlan):
		h.handleDeleteAsk(ctx, b, query, chatID)
	case strings.HasPrefix(data, ConfirmDelete):
		h.handleDeleteConfirm(ctx, b, query, chatID)
	case data == CancelDelete:
		h.answerCallback(ctx, b, query.ID, "Удаление отменено")
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		h.answerCallback(ctx, b, query.ID, "Неизвестное действие")
	}
}

func (h *Handlers) handleCreatePlan(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, chatID int64) {
	telegramID := query.From.ID

	form, ok := h.stateManager.Form(telegramID)
	if !ok || h.stateManager.GetState(telegramID) != state.StatePlanConfirm {
		h.answerCallback(ctx, b, query.ID, "Диалог устарел")
		return
	}
	h.answerCallback(ctx, b, query.ID, "Создаю…")

	created, err := h.planService.Create(ctx, &form)

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		// дата могла устареть, пока шёл диалог
		for _, s := range planSequence(&form) {
			if planSteps[s].field == vErr.Field {
				h.stateManager.SetState(telegramID, s)
				text, keyboard := stepPrompt(s, &form)
				h.sendMessage(ctx, b, chatID, ErrorText(err)+"\n\n"+text, keyboard)
				return
			}
		}
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, ErrorText(err))
	case err != nil && created == nil:
		// форма остаётся, можно нажать «Создать» ещё раз
		h.sendError(ctx, b, chatID, ErrorText(err))
	default:
		h.stateManager.ClearState(telegramID)
		if err != nil {
			h.sendError(ctx, b, chatID, ErrorText(err))
		}
		h.sendMessage(ctx, b, chatID, "🎉 План создан!\n\n"+FormatPlan(created), PlanKeyboard(created))
	}
}

func (h *Handlers) handleToggle(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, chatID int64) {
	planID, err := parseCallbackID(query.Data, TogglePlan)
	if err != nil {
		h.answerCallback(ctx, b, query.ID, "Неизвестное действие")
		return
	}

	plan, found := h.planService.Find(planID)
	if !found {
		h.answerCallback(ctx, b, query.ID, "План не найден")
		return
	}

	if err := h.planService.ToggleActive(ctx, plan); err != nil && !errors.Is(err, service.ErrResyncFailed) {
		h.answerCallback(ctx, b, query.ID, "Не удалось")
		h.sendError(ctx, b, chatID, ErrorText(err))
		return
	}

	updated, found := h.planService.Find(planID)
	if !found {
		h.answerCallback(ctx, b, query.ID, "Готово")
		return
	}
	h.answerCallback(ctx, b, query.ID, "Готово")

	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   query.Message.Message.ID,
		Text:        FormatPlan(updated),
		ReplyMarkup: PlanKeyboard(updated),
	})
	if err != nil {
		h.logger.Warn("Failed to refresh plan message", zap.String("plan_id", planID), zap.Error(err))
	}
}

func (h *Handlers) handleEditPriceStart(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, chatID int64) {
	planID, err := parseCallbackID(query.Data, EditPrice)
	if err != nil {
		h.answerCallback(ctx, b, query.ID, "Неизвестное действие")
		return
	}

	plan, found := h.planService.Find(planID)
	if !found {
		h.answerCallback(ctx, b, query.ID, "План не найден")
		return
	}

	telegramID := query.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateEditPlanPrice)
	h.stateManager.SetValue(telegramID, state.KeyPlanID, planID)

	h.answerCallback(ctx, b, query.ID, "")
	h.sendMessage(ctx, b, chatID, "✏️ "+plan.Name+"\n\nТекущая цена: "+FormatPrice(plan.Offering.DisplayPrice())+
		"\nВведите новую цену или /cancel:", nil)
}

func (h *Handlers) handleDeleteAsk(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, chatID int64) {
	planID, err := parseCallbackID(query.Data, DeletePlan)
	if err != nil {
		h.answerCallback(ctx, b, query.ID, "Неизвестное действие")
		return
	}

	plan, found := h.planService.Find(planID)
	if !found {
		h.answerCallback(ctx, b, query.ID, "План не найден")
		return
	}

	h.answerCallback(ctx, b, query.ID, "")
	h.sendMessage(ctx, b, chatID, "🗑 Удалить план «"+plan.Name+"»? Это действие необратимо.", &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Да, удалить", CallbackData: ConfirmDelete + planID},
			{Text: "Нет", CallbackData: CancelDelete},
		}},
	})
}

func (h *Handlers) handleDeleteConfirm(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, chatID int64) {
	planID, err := parseCallbackID(query.Data, ConfirmDelete)
	if err != nil {
		h.answerCallback(ctx, b, query.ID, "Неизвестное действие")
		return
	}

	err = h.planService.Delete(ctx, planID)
	if err != nil && !errors.Is(err, service.ErrResyncFailed) {
		h.answerCallback(ctx, b, query.ID, "Не удалось")
		h.sendError(ctx, b, chatID, ErrorText(err))
		return
	}

	h.answerCallback(ctx, b, query.ID, "Удалено")
	if err != nil {
		h.sendError(ctx, b, chatID, ErrorText(err))
	}
	h.sendMessage(ctx, b, chatID, "✅ План удалён.", nil)
}
