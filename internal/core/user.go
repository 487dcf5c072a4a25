package core

// Role 決定使用者在配額與工具指派上的層級
type Role string

const (
	RoleBasic     Role = "basic"     // 一般使用者
	RoleExtended  Role = "extended"  // 進階使用者（例如教師）
	RoleUnlimited Role = "unlimited" // 管理者，不套用配額
)

// Scope 限制使用者能在哪些 context 發出請求
type Scope string

const (
	ScopeEverywhere  Scope = "everywhere"
	ScopeCoursesOnly Scope = "coursesonly" // 僅允許 course context 之下
)

// Capability 是權限檢查用的能力名稱
type Capability string

const (
	CapabilityUse Capability = "aihub:use"
)
