package user

type Permission string

const (
	// Employee master
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Placement history
	PermissionPlacementView   Permission = "placement.view"
	PermissionPlacementManage Permission = "placement.manage"

	// Payroll drafting. PermissionPayrollSummary exposes periods without amounts.
	PermissionPayrollSummary  Permission = "payroll.summary"
	PermissionPayrollView     Permission = "payroll.view"
	PermissionPayrollGenerate Permission = "payroll.generate"
	PermissionPayrollEdit     Permission = "payroll.edit"
	PermissionPayrollTax      Permission = "payroll.tax"

	// Payroll workflow
	PermissionPayrollSubmit  Permission = "payroll.submit"
	PermissionPayrollApprove Permission = "payroll.approve"
	PermissionPayrollReject  Permission = "payroll.reject"
	PermissionPayrollPay     Permission = "payroll.pay"
	PermissionPaymentProof   Permission = "payroll.payment_proof"

	// Ledger
	PermissionJournalView Permission = "journal.view"

	// Self service
	PermissionPayslipViewOwn Permission = "payslip.view_own"
)

// RolePermissions maps roles to their permissions. RoleAdmin is not listed;
// HasPermission grants it everything.
var RolePermissions = map[Role][]Permission{
	RoleHR: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionPlacementView,
		PermissionPlacementManage,
		PermissionPayrollSummary,
	},
	RoleFinance: {
		PermissionEmployeeView,
		PermissionPlacementView,
		PermissionPayrollSummary,
		PermissionPayrollView,
		PermissionPayrollGenerate,
		PermissionPayrollEdit,
		PermissionPayrollTax,
		PermissionPayrollSubmit,
		PermissionPayrollPay,
		PermissionPaymentProof,
		PermissionJournalView,
	},
	RoleDirector: {
		PermissionEmployeeView,
		PermissionPlacementView,
		PermissionPayrollSummary,
		PermissionPayrollView,
		PermissionPayrollApprove,
		PermissionPayrollReject,
		PermissionJournalView,
	},
	RoleEmployee: {
		PermissionPayslipViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	if role == RoleAdmin {
		return true
	}

	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
