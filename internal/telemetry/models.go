package telemetry

type Session struct {
	SessionID string `gorm:"column:session_id;primaryKey"`
	Host      string `gorm:"column:host;not null;default:''"`
	StartedAt int64  `gorm:"column:started_at;not null;default:0"`
	EndedAt   int64  `gorm:"column:ended_at;not null;default:0"`
}

func (Session) TableName() string { return "sessions" }

type StatusSample struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID  string  `gorm:"column:session_id;not null"`
	RecordedAt int64   `gorm:"column:recorded_at;not null;default:0"`
	Flags      int64   `gorm:"column:flags;not null;default:0"`
	Battery    float64 `gorm:"column:battery;not null;default:0"`
	X          float64 `gorm:"column:x;not null;default:0"`
	Y          float64 `gorm:"column:y;not null;default:0"`
	Heading    float64 `gorm:"column:heading;not null;default:0"`
}

func (StatusSample) TableName() string { return "status_samples" }

type CommandRecord struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID string `gorm:"column:session_id;not null"`
	SentAt    int64  `gorm:"column:sent_at;not null;default:0"`
	CmdID     string `gorm:"column:cmd_id;not null"`
	Payload   string `gorm:"column:payload;not null;default:''"`
}

func (CommandRecord) TableName() string { return "command_records" }
