package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognee/cognee-cli/internal/dryrun"
	"github.com/cognee/cognee-cli/internal/validation"
)

func newPermissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "permissions",
		Aliases: []string{"perms"},
		Short:   "Manage dataset permissions, roles and tenants",
	}
	cmd.AddCommand(newPermissionsGrantCmd())
	cmd.AddCommand(newPermissionsCreateRoleCmd())
	cmd.AddCommand(newPermissionsAssignRoleCmd())
	cmd.AddCommand(newPermissionsCreateTenantCmd())
	return cmd
}

func newPermissionsGrantCmd() *cobra.Command {
	var datasetRefs []string
	var permissionNames []string
	var rawJSON string

	cmd := &cobra.Command{
		Use:   "grant <principal-id>",
		Short: "Grant dataset permissions to a user, role or tenant",
		Example: strings.TrimSpace(`
  cognee permissions grant 7c1e... --dataset papers --permission read
  cognee permissions grant 7c1e... --json '{"dataset_ids":["..."],"permission_name":"write"}'
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			principal := args[0]
			if rawJSON == "" && len(permissionNames) == 0 {
				return fmt.Errorf("invalid argument: --permission or --json is required")
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			body, err := parseFields(nil, rawJSON)
			if err != nil {
				return err
			}
			if len(datasetRefs) > 0 {
				ids := make([]string, 0, len(datasetRefs))
				for _, ref := range datasetRefs {
					id, err := datasetID(cmd, client, ref)
					if err != nil {
						return err
					}
					ids = append(ids, id)
				}
				body["dataset_ids"] = ids
			}
			switch len(permissionNames) {
			case 0:
			case 1:
				body["permission_name"] = permissionNames[0]
			default:
				body["permission_names"] = permissionNames
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "grant",
				Resource:  "permissions to " + principal,
				Method:    "POST",
				Path:      "api/v1/permissions/datasets/" + principal,
				Body:      body,
			}); ok {
				return err
			}

			ok, err := client.Permissions().GrantDatasetPermission(cmdContext(cmd), principal, body)
			if err != nil {
				return fmt.Errorf("failed to grant permissions: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"principal_id": principal, "success": ok})
			}
			printAction(cmd, "Granted", "permissions to", principal, strings.Join(permissionNames, ", "))
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&datasetRefs, "dataset", nil, "Dataset id or name (repeatable)")
	cmd.Flags().StringArrayVar(&permissionNames, "permission", nil, "Permission name such as read or write (repeatable)")
	cmd.Flags().StringVar(&rawJSON, "json", "", "Raw JSON permissions payload")
	return cmd
}

// newPermissionsCreateCmd builds create-role and create-tenant, which only
// differ in the endpoint.
func newPermissionsCreateCmd(resource, path string, create func(cmd *cobra.Command, body map[string]any) (any, error)) *cobra.Command {
	var fields []string
	var rawJSON string

	cmd := &cobra.Command{
		Use:   "create-" + resource + " <name>",
		Short: "Create a " + resource,
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateName(args[0]); err != nil {
				return fmt.Errorf("invalid argument: %w", err)
			}
			body, err := parseFields(fields, rawJSON)
			if err != nil {
				return err
			}
			body["name"] = args[0]

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  resource + " " + args[0],
				Method:    "POST",
				Path:      path,
				Body:      body,
			}); ok {
				return err
			}

			result, err := create(cmd, body)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", resource, err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, result)
			}
			printAction(cmd, "Created", resource, "", args[0])
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&fields, "field", nil, "Extra field key=value (repeatable)")
	cmd.Flags().StringVar(&rawJSON, "json", "", "Raw JSON body merged under --field values")
	return cmd
}

func newPermissionsCreateRoleCmd() *cobra.Command {
	return newPermissionsCreateCmd("role", "api/v1/permissions/roles", func(cmd *cobra.Command, body map[string]any) (any, error) {
		client, err := getClient()
		if err != nil {
			return nil, err
		}
		return client.Permissions().CreateRole(cmdContext(cmd), body)
	})
}

func newPermissionsCreateTenantCmd() *cobra.Command {
	return newPermissionsCreateCmd("tenant", "api/v1/permissions/tenants", func(cmd *cobra.Command, body map[string]any) (any, error) {
		client, err := getClient()
		if err != nil {
			return nil, err
		}
		return client.Permissions().CreateTenant(cmdContext(cmd), body)
	})
}

func newPermissionsAssignRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-role <user-id> <role-id>",
		Short: "Add a user to a role",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			userID, roleID := args[0], args[1]
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "assign",
				Resource:  "role " + roleID + " to user " + userID,
				Method:    "POST",
				Path:      "api/v1/permissions/users/" + userID + "/roles",
				Body:      map[string]any{"role_id": roleID},
			}); ok {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			ok, err := client.Permissions().AssignUserToRole(cmdContext(cmd), userID, roleID)
			if err != nil {
				return fmt.Errorf("failed to assign role: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"user_id": userID, "role_id": roleID, "success": ok})
			}
			printAction(cmd, "Assigned", "role", roleID, "user "+userID)
			return nil
		}),
	}
}
