package commands

import (
	"context"
	"fmt"

	"civiccare/internal/observability"
	"civiccare/internal/services"
	contextutils "civiccare/internal/utils"

	"github.com/spf13/cobra"
)

// AdminCommands returns the admin access management commands
func AdminCommands(adminService *services.AdminService, userService *services.UserService, logger *observability.Logger) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin access management commands",
		Long: `Admin access management commands for the civic complaint service.

Available commands:
  list    - List all admin access records (pending and approved)
  approve - Approve a pending admin access request`,
	}

	adminCmd.AddCommand(listAdminsCmd(adminService, userService, logger))
	adminCmd.AddCommand(approveAdminCmd(adminService, logger))

	return adminCmd
}

// listAdminsCmd returns the list command
func listAdminsCmd(adminService *services.AdminService, userService *services.UserService, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all admin access records",
		Long:  `List all admin access records with their approval status and department scope.`,
		RunE:  runListAdmins(adminService, userService, logger),
	}
}

// approveAdminCmd returns the approve command
func approveAdminCmd(adminService *services.AdminService, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "approve [admin-id]",
		Short: "Approve a pending admin access request",
		Long:  `Approve a pending admin access request by its record ID. Use 'admin list' to find the ID.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runApproveAdmin(adminService, logger),
	}
}

// runListAdmins returns a function that lists all admin records
func runListAdmins(adminService *services.AdminService, userService *services.UserService, logger *observability.Logger) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		admins, err := adminService.ListAdmins(ctx)
		if err != nil {
			logger.Error(ctx, "Failed to list admins", err, map[string]interface{}{})
			return contextutils.WrapError(err, "failed to list admins")
		}

		if len(admins) == 0 {
			logger.Info(ctx, "No admin records found", nil)
			return nil
		}

		fmt.Printf("%-38s %-30s %-18s %-15s %-8s\n", "ID", "Email", "Role", "Department", "Approved")

		for _, admin := range admins {
			email := admin.UserID
			if user, err := userService.GetUserByID(ctx, admin.UserID); err == nil {
				email = user.Email
			}

			approved := "no"
			if admin.Approved {
				approved = "yes"
			}

			fmt.Printf("%-38s %-30s %-18s %-15s %-8s\n",
				admin.ID,
				email,
				admin.Role,
				admin.Department,
				approved,
			)
		}

		logger.Info(ctx, "Listed admin records", map[string]interface{}{"total": len(admins)})
		return nil
	}
}

// runApproveAdmin returns a function that approves a pending admin request
func runApproveAdmin(adminService *services.AdminService, logger *observability.Logger) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		adminID := args[0]

		if err := adminService.ApproveAdmin(ctx, adminID); err != nil {
			logger.Error(ctx, "Failed to approve admin", err, map[string]interface{}{"admin_id": adminID})
			return contextutils.WrapErrorf(err, "failed to approve admin '%s'", adminID)
		}

		fmt.Printf("Admin access approved for record '%s'\n", adminID)
		logger.Info(ctx, "Admin access approved", map[string]interface{}{"admin_id": adminID})
		return nil
	}
}
