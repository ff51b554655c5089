package cognee

import "context"

// GrantDatasetPermission grants permissions on datasets to a principal (user,
// role or tenant). The permissions payload is sent as-is.
func (s PermissionsService) GrantDatasetPermission(ctx context.Context, principalID string, permissions any) (bool, error) {
	return postAck(ctx, s.Client, resourcePath("api/v1/permissions/datasets/%s", principalID), permissions)
}

func (s PermissionsService) CreateRole(ctx context.Context, fields map[string]any) (Value, error) {
	return s.Client.Post(ctx, "api/v1/permissions/roles", fields)
}

func (s PermissionsService) AssignUserToRole(ctx context.Context, userID, roleID string) (bool, error) {
	return postAck(ctx, s.Client, resourcePath("api/v1/permissions/users/%s/roles", userID), map[string]any{"role_id": roleID})
}

func (s PermissionsService) CreateTenant(ctx context.Context, fields map[string]any) (Value, error) {
	return s.Client.Post(ctx, "api/v1/permissions/tenants", fields)
}
