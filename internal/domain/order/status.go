package order

// Status 订单状态，取值固定，存储和比较都区分大小写
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusCompleted Status = "Completed"
)

// Statuses 按生命周期顺序列出所有状态
var Statuses = []Status{StatusPending, StatusPreparing, StatusReady, StatusCompleted}

// transitions 不限制流转：店员可以把订单改成任意状态，包括从 Completed 改回 Pending
var transitions = map[Status][]Status{
	StatusPending:   Statuses,
	StatusPreparing: Statuses,
	StatusReady:     Statuses,
	StatusCompleted: Statuses,
}

// ParseStatus 解析状态名，无效时返回 ErrInvalidStatus
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", ErrStatusRequired
	}
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// IsValid 判断 s 是否为合法状态
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo 判断流转表是否允许 s -> target
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
