package communities

import "github.com/iudanet/communitas/pkg/api"

// MembershipState — состояние пользователя относительно сообщества.
// Переходы: NonMember -> Member (free join), NonMember -> PendingRequest
// (request-access), PendingRequest -> Member только через ревалидацию
// после одобрения на сервере, локального перехода нет.
type MembershipState int

const (
	// StateNonMember — пользователь не состоит и заявок не имеет
	StateNonMember MembershipState = iota
	// StatePendingRequest — заявка на доступ ожидает решения
	StatePendingRequest
	// StateMember — терминальное хорошее состояние
	StateMember
)

// String возвращает человекочитаемое имя состояния
func (s MembershipState) String() string {
	switch s {
	case StateMember:
		return "member"
	case StatePendingRequest:
		return "pending"
	default:
		return "none"
	}
}

// StateOf выводит состояние из флагов сообщества.
// is_member имеет приоритет: участник не может иметь pending request.
func StateOf(c api.Community) MembershipState {
	switch {
	case c.IsMember:
		return StateMember
	case c.HasPendingRequest:
		return StatePendingRequest
	default:
		return StateNonMember
	}
}

// normalize восстанавливает инвариант взаимоисключения флагов после
// любой сверки с сервером
func normalize(c api.Community) api.Community {
	if c.IsMember {
		c.HasPendingRequest = false
	}
	return c
}
