package model

// AIEventLog 是 mediation 成敗事件的 append-only 紀錄
type AIEventLog struct {
	Event       string         `bson:"event" json:"event"`
	ProjectName string         `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Payload     map[string]any `bson:"payload,omitempty" json:"payload,omitempty"`
	Version     string         `bson:"version,omitempty" json:"version,omitempty"`
	LoggedAt    string         `bson:"logged_at" json:"logged_at"`
}
