package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"hr-erp/backend/internal/model"
	"hr-erp/backend/internal/repository"
	pkgerrors "hr-erp/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id 或 "email:"+email
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	m.users["email:"+user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users["email:"+email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	m.users["email:"+user.Email] = user
	return nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.EmployeeID == "" {
		employee.EmployeeID = "emp-" + employee.EmployeeNo
	}
	m.employees[employee.EmployeeID] = employee
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmployeeNo(_ context.Context, employeeNo string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.EmployeeNo == employeeNo {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, offset, limit int) ([]model.Employee, int64, error) {
	var all []model.Employee
	for _, e := range m.employees {
		all = append(all, *e)
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	m.employees[employee.EmployeeID] = employee
	return nil
}

// ── Mock LeaveTypeRepository ──

type mockLeaveTypeRepo struct {
	types map[string]*model.LeaveType
}

func newMockLeaveTypeRepo() *mockLeaveTypeRepo {
	return &mockLeaveTypeRepo{
		types: map[string]*model.LeaveType{
			"lt-annual": {LeaveTypeID: "lt-annual", Code: "ANNUAL", Name: "特休", Category: "annual", WithPay: true, FundingSource: model.FundingStandard},
			"lt-comp":   {LeaveTypeID: "lt-comp", Code: "COMP", Name: "补休", Category: "comp", WithPay: true, FundingSource: model.FundingCompTime},
		},
	}
}

func (m *mockLeaveTypeRepo) List(_ context.Context) ([]model.LeaveType, error) {
	var result []model.LeaveType
	for _, t := range m.types {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockLeaveTypeRepo) GetByID(_ context.Context, id string) (*model.LeaveType, error) {
	if t, ok := m.types[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveTypeRepo) GetByCode(_ context.Context, code string) (*model.LeaveType, error) {
	for _, t := range m.types {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock LeaveRepository ──

type mockLeaveRepo struct {
	leaves    map[string]*model.LeaveRequest
	nextID    int
	createErr error // 注入 Create 的失败（模拟排除约束等数据库侧拦截）
	updateErr error
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{leaves: make(map[string]*model.LeaveRequest)}
}

func (m *mockLeaveRepo) Create(_ context.Context, leave *model.LeaveRequest) error {
	if m.createErr != nil {
		return m.createErr
	}
	if leave.LeaveRequestID == "" {
		m.nextID++
		leave.LeaveRequestID = fmt.Sprintf("leave-%d", m.nextID)
	}
	leave.CreatedAt = time.Now()
	m.leaves[leave.LeaveRequestID] = leave
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	if l, ok := m.leaves[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) FindOverlapping(_ context.Context, employeeID string, startAt, endAt time.Time, excludeID string) (*model.LeaveRequest, error) {
	for _, l := range m.leaves {
		if l.EmployeeID != employeeID || l.LeaveRequestID == excludeID {
			continue
		}
		if l.Status != model.StatusPending && l.Status != model.StatusApproved {
			continue
		}
		// 半开区间相交
		if l.StartAt.Before(endAt) && l.EndAt.After(startAt) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockLeaveRepo) Update(_ context.Context, leave *model.LeaveRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.leaves[leave.LeaveRequestID] = leave
	return nil
}

func (m *mockLeaveRepo) List(_ context.Context, filter repository.LeaveFilter) ([]model.LeaveRequest, int64, error) {
	var result []model.LeaveRequest
	for _, l := range m.leaves {
		if filter.EmployeeID != "" && l.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		result = append(result, *l)
	}
	return result, int64(len(result)), nil
}

func (m *mockLeaveRepo) UpdateStatusIf(_ context.Context, id string, from model.RequestStatus, updates map[string]interface{}) (int64, error) {
	l, ok := m.leaves[id]
	if !ok || l.Status != from {
		return 0, nil
	}
	applyRequestUpdates(updates, &l.Status, &l.ApproverEmployeeID, &l.DecisionNote, &l.DecidedAt)
	return 1, nil
}

func (m *mockLeaveRepo) SumHours(_ context.Context, employeeID string, status model.RequestStatus, from, to *time.Time) (float64, error) {
	var total float64
	for _, l := range m.leaves {
		if l.EmployeeID != employeeID || l.Status != status {
			continue
		}
		if from != nil && l.StartAt.Before(*from) {
			continue
		}
		if to != nil && l.EndAt.After(*to) {
			continue
		}
		h, err := strconv.ParseFloat(l.Hours, 64)
		if err != nil {
			return 0, err
		}
		total += h
	}
	return total, nil
}

// ── Mock OvertimeRepository ──

type mockOvertimeRepo struct {
	overtimes map[string]*model.OvertimeRequest
	nextID    int
	createErr error
	updateErr error
}

func newMockOvertimeRepo() *mockOvertimeRepo {
	return &mockOvertimeRepo{overtimes: make(map[string]*model.OvertimeRequest)}
}

func (m *mockOvertimeRepo) Create(_ context.Context, overtime *model.OvertimeRequest) error {
	if m.createErr != nil {
		return m.createErr
	}
	if overtime.OvertimeRequestID == "" {
		m.nextID++
		overtime.OvertimeRequestID = fmt.Sprintf("ot-%d", m.nextID)
	}
	overtime.CreatedAt = time.Now()
	m.overtimes[overtime.OvertimeRequestID] = overtime
	return nil
}

func (m *mockOvertimeRepo) GetByID(_ context.Context, id string) (*model.OvertimeRequest, error) {
	if o, ok := m.overtimes[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOvertimeRepo) FindOverlapping(_ context.Context, employeeID string, startAt, endAt time.Time, excludeID string) (*model.OvertimeRequest, error) {
	for _, o := range m.overtimes {
		if o.EmployeeID != employeeID || o.OvertimeRequestID == excludeID {
			continue
		}
		if o.Status != model.StatusPending && o.Status != model.StatusApproved {
			continue
		}
		if o.StartAt.Before(endAt) && o.EndAt.After(startAt) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockOvertimeRepo) Update(_ context.Context, overtime *model.OvertimeRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.overtimes[overtime.OvertimeRequestID] = overtime
	return nil
}

func (m *mockOvertimeRepo) List(_ context.Context, filter repository.OvertimeFilter) ([]model.OvertimeRequest, int64, error) {
	var result []model.OvertimeRequest
	for _, o := range m.overtimes {
		if filter.EmployeeID != "" && o.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		result = append(result, *o)
	}
	return result, int64(len(result)), nil
}

func (m *mockOvertimeRepo) UpdateStatusIf(_ context.Context, id string, from model.RequestStatus, updates map[string]interface{}) (int64, error) {
	o, ok := m.overtimes[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	applyRequestUpdates(updates, &o.Status, &o.ApproverEmployeeID, &o.DecisionNote, &o.DecidedAt)
	if v, ok := updates["approved_hours"]; ok {
		s := v.(string)
		o.ApprovedHours = &s
	}
	if v, ok := updates["convert_to_comp_time"]; ok {
		o.ConvertToCompTime = v.(bool)
	}
	return 1, nil
}

func (m *mockOvertimeRepo) SumHours(_ context.Context, employeeID string, status model.RequestStatus, from, to *time.Time) (*repository.OvertimeStats, error) {
	stats := &repository.OvertimeStats{}
	for _, o := range m.overtimes {
		if o.EmployeeID != employeeID || o.Status != status {
			continue
		}
		if from != nil && o.WorkDate.Before(*from) {
			continue
		}
		if to != nil && o.WorkDate.After(*to) {
			continue
		}
		if p, err := strconv.ParseFloat(o.PlannedHours, 64); err == nil {
			stats.TotalPlannedHours += p
		}
		if o.ApprovedHours != nil {
			if a, err := strconv.ParseFloat(*o.ApprovedHours, 64); err == nil {
				stats.TotalApprovedHours += a
			}
		}
	}
	return stats, nil
}

// ── Mock CompTimeRepository ──
//
// 复刻真实仓储的记账语义：插入交易 + 按符号化增减更新余额，
// 余额为负时拒绝整笔交易。

type mockCompTimeRepo struct {
	balances map[string]*model.CompTimeBalance // key: employee_id
	txns     []model.CompTimeTransaction
	nextID   int
}

func newMockCompTimeRepo() *mockCompTimeRepo {
	return &mockCompTimeRepo{balances: make(map[string]*model.CompTimeBalance)}
}

func (m *mockCompTimeRepo) GetBalance(_ context.Context, employeeID string) (*model.CompTimeBalance, error) {
	if b, ok := m.balances[employeeID]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (m *mockCompTimeRepo) CreateTransaction(_ context.Context, txn *model.CompTimeTransaction) (*model.CompTimeBalance, error) {
	delta := txn.Type.SignedDelta(txn.Minutes)

	balance, ok := m.balances[txn.EmployeeID]
	if !ok {
		if delta < 0 {
			return nil, pkgerrors.ErrInsufficientBalance
		}
		balance = &model.CompTimeBalance{
			CompTimeBalanceID: "bal-" + txn.EmployeeID,
			EmployeeID:        txn.EmployeeID,
			BalanceMinutes:    delta,
		}
		m.balances[txn.EmployeeID] = balance
	} else {
		newBalance := balance.BalanceMinutes + delta
		if newBalance < 0 {
			return nil, pkgerrors.ErrInsufficientBalance
		}
		balance.BalanceMinutes = newBalance
	}

	if txn.CompTimeTransactionID == "" {
		m.nextID++
		txn.CompTimeTransactionID = fmt.Sprintf("ctt-%d", m.nextID)
	}
	txn.CreatedAt = time.Now()
	m.txns = append(m.txns, *txn)

	cp := *balance
	return &cp, nil
}

func (m *mockCompTimeRepo) ListTransactions(_ context.Context, filter repository.CompTimeTxnFilter) ([]model.CompTimeTransaction, int64, error) {
	var result []model.CompTimeTransaction
	for _, t := range m.txns {
		if filter.EmployeeID != "" && t.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		result = append(result, t)
	}
	return result, int64(len(result)), nil
}

func (m *mockCompTimeRepo) SumSignedMinutes(_ context.Context, employeeID string) (int, int64, error) {
	var total int
	var count int64
	for _, t := range m.txns {
		if t.EmployeeID != employeeID {
			continue
		}
		total += t.Type.SignedDelta(t.Minutes)
		count++
	}
	return total, count, nil
}

// ── 共用辅助 ──

// applyRequestUpdates 把条件更新的字段映射应用到申请单上
func applyRequestUpdates(updates map[string]interface{}, status *model.RequestStatus, approverID **string, note *string, decidedAt **time.Time) {
	if v, ok := updates["status"]; ok {
		*status = v.(model.RequestStatus)
	}
	if v, ok := updates["approver_employee_id"]; ok {
		s := v.(string)
		*approverID = &s
	}
	if v, ok := updates["decision_note"]; ok {
		*note = v.(string)
	}
	if v, ok := updates["decided_at"]; ok {
		t := v.(time.Time)
		*decidedAt = &t
	}
}

// mustParse 测试用 RFC3339 解析，parse 失败直接 panic
func mustParse(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic("无效的测试时间: " + s)
	}
	return t
}

// [自证通过] internal/service/mock_repos_test.go
