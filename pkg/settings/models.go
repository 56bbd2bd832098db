package settings

import "time"

// Group is the settings group every plugin key lives under.
const Group = "plugin:oaswitchboard_plugin"

const (
	KeyEnabled    = "oas_send"
	KeyEmail      = "oas_email"
	KeySandbox    = "oas_sandbox"
	KeyPassword   = "oas_password"
	KeyURL        = "oas_url"
	KeySandboxURL = "oas_sandbox_url"
)

// Keys lists every plugin setting in install order.
var Keys = []string{KeyEnabled, KeyEmail, KeySandbox, KeyPassword, KeyURL, KeySandboxURL}

type settingModel struct {
	ID          uint      `gorm:"primaryKey;column:id"`
	JournalCode string    `gorm:"column:journal_code;uniqueIndex:idx_journal_setting"`
	GroupName   string    `gorm:"column:group_name;uniqueIndex:idx_journal_setting"`
	Name        string    `gorm:"column:name;uniqueIndex:idx_journal_setting"`
	Value       string    `gorm:"column:value"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (settingModel) TableName() string {
	return "journal_settings"
}

// Settings is the per-journal plugin configuration, loaded once per broadcast.
type Settings struct {
	Enabled    bool
	Sandbox    bool
	Email      string
	Password   string
	URL        string
	SandboxURL string
}

// Defaults seed a journal at install time and fill unset URLs on load.
type Defaults struct {
	URL        string
	SandboxURL string
}
