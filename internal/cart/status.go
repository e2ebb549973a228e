package cart

// Status — состояние отправки заказа
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// canTransition описывает допустимые переходы:
// из любого завершённого состояния можно начать отправку, а отправка завершается успехом или ошибкой
func (s Status) canTransition(to Status) bool {
	switch to {
	case StatusSubmitting:
		return s != StatusSubmitting
	case StatusSucceeded, StatusFailed:
		return s == StatusSubmitting
	default:
		return false
	}
}
