package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/about"
	MetricsRoute     = "/metrics"

	IssueTokenRoute = "/token"
	RegisterRoute   = "/register"

	AdminParent         = "/v1/admin/"
	ListAuditsRoute     = AdminParent + "audits"
	ListAttendanceRoute = AdminParent + "attendance"
)
