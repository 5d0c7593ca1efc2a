package handlers

import (
	"errors"
	"slices"
	"strings"

	"github.com/Freeeeeet/wellness_client/internal/controller/state"
	"github.com/Freeeeeet/wellness_client/internal/model"
	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/go-telegram/bot/models"
)

// skipInput leaves an optional field empty.
const skipInput = "-"

type planStep struct {
	field  string // ValidationError.Field reported for this step
	prompt string
	set    func(form *service.PlanForm, value string)
}

var planSteps = map[state.UserState]planStep{
	state.StatePlanName: {
		field:  service.FieldName,
		prompt: "Как будет называться план?\n\nНапример: Morning Flow",
		set:    func(f *service.PlanForm, v string) { f.Name = v },
	},
	state.StatePlanType: {
		field:  service.FieldType,
		prompt: "Выберите тип плана:",
		set:    func(f *service.PlanForm, v string) { f.Type = strings.ToLower(v) },
	},
	state.StatePlanFormat: {
		field:  service.FieldSessionFormat,
		prompt: "Выберите формат занятия:",
		set:    func(f *service.PlanForm, v string) { f.SessionFormat = strings.ToLower(v) },
	},
	state.StatePlanPrice: {
		field:  service.FieldPrice,
		prompt: "Укажите стоимость одного занятия:",
		set:    func(f *service.PlanForm, v string) { f.Price = v },
	},
	state.StatePlanDuration: {
		field:  service.FieldDuration,
		prompt: "Выберите длительность (от 30 до 240 минут, шаг 15) или введите своё значение:",
		set:    func(f *service.PlanForm, v string) { f.Duration = v },
	},
	state.StatePlanScheduledDate: {
		field:  service.FieldScheduledDate,
		prompt: "Дата группового занятия в формате ГГГГ-ММ-ДД:",
		set:    func(f *service.PlanForm, v string) { f.ScheduledDate = v },
	},
	state.StatePlanScheduledTime: {
		field:  service.FieldScheduledTime,
		prompt: "Время начала в формате ЧЧ:ММ:",
		set:    func(f *service.PlanForm, v string) { f.ScheduledTime = v },
	},
	state.StatePlanMonthlyPrice: {
		field:  service.FieldMonthlyPrice,
		prompt: "Укажите стоимость подписки в месяц:",
		set:    func(f *service.PlanForm, v string) { f.MonthlyPrice = v },
	},
	state.StatePlanClassesPerMonth: {
		field:  service.FieldClassesPerMonth,
		prompt: "Сколько занятий входит в подписку за месяц?",
		set:    func(f *service.PlanForm, v string) { f.ClassesPerMonth = v },
	},
	state.StatePlanDescription: {
		prompt: "Добавьте описание или отправьте «-», чтобы пропустить:",
		set: func(f *service.PlanForm, v string) {
			if v == skipInput {
				v = ""
			}
			f.Description = v
		},
	},
}

// planSequence lists the dialog steps for the current shape of form.
func planSequence(form *service.PlanForm) []state.UserState {
	seq := []state.UserState{state.StatePlanName, state.StatePlanType}

	if form.Type == string(model.PlanTypeMonthly) {
		seq = append(seq, state.StatePlanMonthlyPrice, state.StatePlanClassesPerMonth)
	} else {
		seq = append(seq, state.StatePlanFormat, state.StatePlanPrice, state.StatePlanDuration)
		if form.SessionFormat == string(model.SessionFormatOneToMany) {
			seq = append(seq, state.StatePlanScheduledDate, state.StatePlanScheduledTime)
		}
	}

	return append(seq, state.StatePlanDescription, state.StatePlanConfirm)
}

// advancePlan stores input for the current step and picks the next one. When
// the form fails validation on this step or an earlier one, the dialog returns
// to the failing step and problem explains why.
func advancePlan(form *service.PlanForm, current state.UserState, input string, validate func(*service.PlanForm) error) (next state.UserState, problem string) {
	step, ok := planSteps[current]
	if !ok {
		return current, "❌ Сейчас ожидается другой ввод."
	}
	step.set(form, strings.TrimSpace(input))

	seq := planSequence(form)
	idx := slices.Index(seq, current)

	if err := validate(form); err != nil {
		var vErr *service.ValidationError
		if !errors.As(err, &vErr) {
			return current, ErrorText(err)
		}
		for i, s := range seq[:idx+1] {
			if planSteps[s].field == vErr.Field {
				return seq[i], "❌ " + vErr.Reason
			}
		}
	}

	return seq[idx+1], ""
}

// stepPrompt returns the question and optional buttons for s.
func stepPrompt(s state.UserState, form *service.PlanForm) (string, *models.InlineKeyboardMarkup) {
	if s == state.StatePlanConfirm {
		return "Проверьте план:\n\n" + FormatForm(form), &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{{
				{Text: "✅ Создать", CallbackData: CreatePlanYes},
				{Text: "❌ Отмена", CallbackData: CreatePlanNo},
			}},
		}
	}

	prompt := planSteps[s].prompt + "\n\nДля отмены используйте /cancel"

	switch s {
	case state.StatePlanType:
		return prompt, inputKeyboard([]models.InlineKeyboardButton{
			{Text: "Разовое занятие", CallbackData: PlanInput + string(model.PlanTypeSingle)},
			{Text: "Подписка на месяц", CallbackData: PlanInput + string(model.PlanTypeMonthly)},
		})
	case state.StatePlanFormat:
		return prompt, inputKeyboard([]models.InlineKeyboardButton{
			{Text: "👤 Индивидуально", CallbackData: PlanInput + string(model.SessionFormatOneOnOne)},
			{Text: "👥 Группа", CallbackData: PlanInput + string(model.SessionFormatOneToMany)},
		})
	case state.StatePlanDuration:
		return prompt, inputKeyboard(
			[]models.InlineKeyboardButton{
				{Text: "30 мин", CallbackData: PlanInput + "30"},
				{Text: "45 мин", CallbackData: PlanInput + "45"},
				{Text: "1 час", CallbackData: PlanInput + "60"},
			},
			[]models.InlineKeyboardButton{
				{Text: "1.5 часа", CallbackData: PlanInput + "90"},
				{Text: "2 часа", CallbackData: PlanInput + "120"},
			},
		)
	}

	return prompt, nil
}

func inputKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// applyPrice sets the price field that matches the plan type.
func applyPrice(form *service.PlanForm, input string) {
	if form.Type == string(model.PlanTypeMonthly) {
		form.MonthlyPrice = strings.TrimSpace(input)
		return
	}
	form.Price = strings.TrimSpace(input)
}
