package state

import "github.com/Freeeeeet/wellness_client/internal/service"

// UserState представляет текущий шаг пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Вход
	StateLoginEmail    UserState = "login_email"
	StateLoginPassword UserState = "login_password"

	// Создание плана
	StatePlanName            UserState = "plan_name"
	StatePlanType            UserState = "plan_type"
	StatePlanFormat          UserState = "plan_format"
	StatePlanPrice           UserState = "plan_price"
	StatePlanDuration        UserState = "plan_duration"
	StatePlanScheduledDate   UserState = "plan_scheduled_date"
	StatePlanScheduledTime   UserState = "plan_scheduled_time"
	StatePlanMonthlyPrice    UserState = "plan_monthly_price"
	StatePlanClassesPerMonth UserState = "plan_classes_per_month"
	StatePlanDescription     UserState = "plan_description"
	StatePlanConfirm         UserState = "plan_confirm"

	// Редактирование цены существующего плана
	StateEditPlanPrice UserState = "edit_plan_price"
)

// Ключи для Session.Values
const (
	KeyEmail  = "email"
	KeyPlanID = "plan_id"
)

// Session хранит данные пользователя во время диалога
type Session struct {
	State  UserState
	Form   *service.PlanForm
	Values map[string]string
}
