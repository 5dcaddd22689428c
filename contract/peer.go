package contract

// PointsCredit — запрос начисления баллов лояльности на витрине.
type PointsCredit struct {
	UserID string `json:"userId"`
	Points int64  `json:"points"`
	Reason string `json:"reason"`
}

// UserNotification — полезная нагрузка обобщённого уведомления
// (POST /internal/send-notification).
type UserNotification struct {
	UserID  string         `json:"userId"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data,omitempty"`
}

// PushEnvelope — конверт realtime-доставки уведомления
// (POST /internal/notifications/send).
type PushEnvelope struct {
	UserID       string       `json:"userId"`
	Notification Notification `json:"notification"`
}

// CartPresence — ответ консультативной проверки наличия товара в корзинах.
type CartPresence struct {
	Count int `json:"count"`
}
