package domain

// Permission tokens checked by set membership. Opaque strings, independent
// of the role hierarchy.
const (
	PermPipelineManage = "pipeline:manage"
	PermLeadsCreate    = "leads:create"
	PermLeadsManage    = "leads:manage"
)
