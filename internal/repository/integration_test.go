//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "hr-erp/backend/pkg/errors"

	"hr-erp/backend/internal/model"
	"hr-erp/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=hr_erp password=hr_erp_password dbname=hr_erp_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Department{},
		&model.User{},
		&model.Employee{},
		&model.LeaveType{},
		&model.LeaveRequest{},
		&model.OvertimeRequest{},
		&model.CompTimeBalance{},
		&model.CompTimeTransaction{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	// AutoMigrate 不会创建排除约束，按正式迁移脚本补齐
	if err := installExclusionConstraints(testDB); err != nil {
		fmt.Fprintf(os.Stderr, "创建排除约束失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func installExclusionConstraints(db *gorm.DB) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE leave_requests DROP CONSTRAINT IF EXISTS leave_requests_no_overlap`,
		`ALTER TABLE leave_requests ADD CONSTRAINT leave_requests_no_overlap EXCLUDE USING gist (
			employee_id WITH =,
			tstzrange(start_at, end_at) WITH &&
		) WHERE (status IN ('pending', 'approved'))`,
		`ALTER TABLE overtime_requests DROP CONSTRAINT IF EXISTS overtime_requests_no_overlap`,
		`ALTER TABLE overtime_requests ADD CONSTRAINT overtime_requests_no_overlap EXCLUDE USING gist (
			employee_id WITH =,
			tstzrange(start_at, end_at) WITH &&
		) WHERE (status IN ('pending', 'approved'))`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (dept *model.Department, emp *model.Employee, lt *model.LeaveType, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	dept = &model.Department{
		Code: fmt.Sprintf("DEPT%d", time.Now().UnixNano()),
		Name: "测试部门",
	}
	if err := testDB.WithContext(ctx).Create(dept).Error; err != nil {
		t.Fatalf("创建部门失败: %v", err)
	}

	emp = &model.Employee{
		EmployeeNo:   fmt.Sprintf("EMP%d", time.Now().UnixNano()),
		FullName:     "测试员工",
		Email:        fmt.Sprintf("test%d@hr-erp.local", time.Now().UnixNano()),
		HireDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:       model.EmployeeActive,
		DepartmentID: &dept.DepartmentID,
	}
	if err := testDB.WithContext(ctx).Create(emp).Error; err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	lt = &model.LeaveType{
		Code:          fmt.Sprintf("COMP%d", time.Now().UnixNano()),
		Name:          "补休假",
		Category:      "comp",
		WithPay:       true,
		FundingSource: model.FundingCompTime,
	}
	if err := testDB.WithContext(ctx).Create(lt).Error; err != nil {
		t.Fatalf("创建假别失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("employee_id = ?", emp.EmployeeID).Delete(&model.CompTimeTransaction{})
		testDB.Where("employee_id = ?", emp.EmployeeID).Delete(&model.CompTimeBalance{})
		testDB.Where("employee_id = ?", emp.EmployeeID).Delete(&model.LeaveRequest{})
		testDB.Where("employee_id = ?", emp.EmployeeID).Delete(&model.OvertimeRequest{})
		testDB.Where("leave_type_id = ?", lt.LeaveTypeID).Delete(&model.LeaveType{})
		testDB.Where("employee_id = ?", emp.EmployeeID).Delete(&model.Employee{})
		testDB.Where("department_id = ?", dept.DepartmentID).Delete(&model.Department{})
	}
	return
}

// ═══════════════════════════════════════════════════════════
// Test: CompTime Transaction Engine
// ═══════════════════════════════════════════════════════════

func TestCompTime_CreateTransaction_LazyCreate(t *testing.T) {
	_, emp, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// 首笔交易前不存在余额行
	balance, err := repo.CompTime.GetBalance(ctx, emp.EmployeeID)
	if err != nil {
		t.Fatalf("GetBalance 失败: %v", err)
	}
	if balance != nil {
		t.Fatal("首笔交易前不应存在余额行")
	}

	// earn 120 分钟惰性创建余额行
	balance, err = repo.CompTime.CreateTransaction(ctx, &model.CompTimeTransaction{
		EmployeeID: emp.EmployeeID,
		Type:       model.TxnEarn,
		Minutes:    120,
		OccurredAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Reason:     "加班转补休",
	})
	if err != nil {
		t.Fatalf("CreateTransaction 失败: %v", err)
	}
	if balance.BalanceMinutes != 120 {
		t.Errorf("期望余额 120，得到 %d", balance.BalanceMinutes)
	}
	if balance.EmployeeID != emp.EmployeeID {
		t.Errorf("余额行员工不匹配: %s", balance.EmployeeID)
	}
}

func TestCompTime_CreateTransaction_InsufficiencyRollsBack(t *testing.T) {
	_, emp, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	occurredAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := repo.CompTime.CreateTransaction(ctx, &model.CompTimeTransaction{
		EmployeeID: emp.EmployeeID,
		Type:       model.TxnEarn,
		Minutes:    100,
		OccurredAt: occurredAt,
	}); err != nil {
		t.Fatalf("earn 失败: %v", err)
	}
	if _, err := repo.CompTime.CreateTransaction(ctx, &model.CompTimeTransaction{
		EmployeeID: emp.EmployeeID,
		Type:       model.TxnSpend,
		Minutes:    40,
		OccurredAt: occurredAt,
	}); err != nil {
		t.Fatalf("spend 失败: %v", err)
	}

	// 超额扣除应整体回滚：余额不变，台账不新增
	_, err := repo.CompTime.CreateTransaction(ctx, &model.CompTimeTransaction{
		EmployeeID: emp.EmployeeID,
		Type:       model.TxnSpend,
		Minutes:    120,
		OccurredAt: occurredAt,
	})
	if !errors.Is(err, pkgerrors.ErrInsufficientBalance) {
		t.Fatalf("期望 ErrInsufficientBalance，得到: %v", err)
	}

	balance, err := repo.CompTime.GetBalance(ctx, emp.EmployeeID)
	if err != nil {
		t.Fatalf("GetBalance 失败: %v", err)
	}
	if balance.BalanceMinutes != 60 {
		t.Errorf("回滚后余额应为 60，得到 %d", balance.BalanceMinutes)
	}

	_, count, err := repo.CompTime.SumSignedMinutes(ctx, emp.EmployeeID)
	if err != nil {
		t.Fatalf("SumSignedMinutes 失败: %v", err)
	}
	if count != 2 {
		t.Errorf("回滚的交易不应入账，期望 2 笔，得到 %d", count)
	}
}

func TestCompTime_CreateTransaction_SpendWithoutBalanceRow(t *testing.T) {
	_, emp, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	_, err := repo.CompTime.CreateTransaction(ctx, &model.CompTimeTransaction{
		EmployeeID: emp.EmployeeID,
		Type:       model.TxnSpend,
		Minutes:    30,
		OccurredAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, pkgerrors.ErrInsufficientBalance) {
		t.Fatalf("无余额行时扣除应返回 ErrInsufficientBalance，得到: %v", err)
	}

	_, count, err := repo.CompTime.SumSignedMinutes(ctx, emp.EmployeeID)
	if err != nil {
		t.Fatalf("SumSignedMinutes 失败: %v", err)
	}
	if count != 0 {
		t.Errorf("失败的交易不应入账，得到 %d 笔", count)
	}
}

func TestCompTime_ConcurrentSpend_Serialized(t *testing.T) {
	_, emp, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	occurredAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := repo.CompTime.CreateTransaction(ctx, &model.CompTimeTransaction{
		EmployeeID: emp.EmployeeID,
		Type:       model.TxnEarn,
		Minutes:    100,
		OccurredAt: occurredAt,
	}); err != nil {
		t.Fatalf("earn 失败: %v", err)
	}

	// 两个并发 60 分钟扣除：FOR UPDATE 串行化后恰好一个成功
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = repo.CompTime.CreateTransaction(ctx, &model.CompTimeTransaction{
				EmployeeID: emp.EmployeeID,
				Type:       model.TxnSpend,
				Minutes:    60,
				OccurredAt: occurredAt,
			})
		}(i)
	}
	wg.Wait()

	var insufficient int
	for _, err := range errs {
		if errors.Is(err, pkgerrors.ErrInsufficientBalance) {
			insufficient++
		} else if err != nil {
			t.Fatalf("意外错误: %v", err)
		}
	}
	if insufficient != 1 {
		t.Fatalf("并发扣除期望恰好 1 次余额不足，得到 %d 次", insufficient)
	}

	balance, err := repo.CompTime.GetBalance(ctx, emp.EmployeeID)
	if err != nil {
		t.Fatalf("GetBalance 失败: %v", err)
	}
	if balance.BalanceMinutes != 40 {
		t.Errorf("并发扣除后余额应为 40，得到 %d", balance.BalanceMinutes)
	}
}

func TestCompTime_ConcurrentFirstEarn_BothSucceed(t *testing.T) {
	_, emp, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// 两笔并发的首笔入账：余额行先以 ON CONFLICT 补齐再加锁，
	// 双方都不应撞上唯一索引
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = repo.CompTime.CreateTransaction(ctx, &model.CompTimeTransaction{
				EmployeeID: emp.EmployeeID,
				Type:       model.TxnEarn,
				Minutes:    30,
				OccurredAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("并发首笔入账第 %d 笔失败: %v", i+1, err)
		}
	}

	balance, err := repo.CompTime.GetBalance(ctx, emp.EmployeeID)
	if err != nil {
		t.Fatalf("GetBalance 失败: %v", err)
	}
	if balance.BalanceMinutes != 60 {
		t.Errorf("两笔 30 分钟入账后余额应为 60，得到 %d", balance.BalanceMinutes)
	}
}

func TestCompTime_SumSignedMinutes_MatchesBalance(t *testing.T) {
	_, emp, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	occurredAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	steps := []struct {
		typ     model.CompTimeTxnType
		minutes int
	}{
		{model.TxnEarn, 120},
		{model.TxnSpend, 30},
		{model.TxnAdjust, -15},
		{model.TxnAdjust, 5},
	}
	for _, s := range steps {
		if _, err := repo.CompTime.CreateTransaction(ctx, &model.CompTimeTransaction{
			EmployeeID: emp.EmployeeID,
			Type:       s.typ,
			Minutes:    s.minutes,
			OccurredAt: occurredAt,
		}); err != nil {
			t.Fatalf("CreateTransaction(%s, %d) 失败: %v", s.typ, s.minutes, err)
		}
	}

	total, count, err := repo.CompTime.SumSignedMinutes(ctx, emp.EmployeeID)
	if err != nil {
		t.Fatalf("SumSignedMinutes 失败: %v", err)
	}
	if count != 4 {
		t.Errorf("期望 4 笔交易，得到 %d", count)
	}
	if total != 80 {
		t.Errorf("台账折算期望 80 分钟，得到 %d", total)
	}

	balance, err := repo.CompTime.GetBalance(ctx, emp.EmployeeID)
	if err != nil {
		t.Fatalf("GetBalance 失败: %v", err)
	}
	if balance.BalanceMinutes != total {
		t.Errorf("余额 %d 与台账折算 %d 不一致", balance.BalanceMinutes, total)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Status CAS
// ═══════════════════════════════════════════════════════════

func TestLeave_UpdateStatusIf_CAS(t *testing.T) {
	_, emp, lt, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	leave := &model.LeaveRequest{
		EmployeeID:  emp.EmployeeID,
		LeaveTypeID: lt.LeaveTypeID,
		StartAt:     time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC),
		Hours:       "8.00",
		Status:      model.StatusPending,
	}
	if err := repo.Leave.Create(ctx, leave); err != nil {
		t.Fatalf("创建请假申请失败: %v", err)
	}

	now := time.Now()
	rows, err := repo.Leave.UpdateStatusIf(ctx, leave.LeaveRequestID, model.StatusPending, map[string]interface{}{
		"status":               model.StatusApproved,
		"approver_employee_id": emp.EmployeeID,
		"decided_at":           now,
	})
	if err != nil {
		t.Fatalf("第一次 CAS 失败: %v", err)
	}
	if rows != 1 {
		t.Fatalf("第一次 CAS 期望命中 1 行，得到 %d", rows)
	}

	// 状态已不是 pending，第二次 CAS 应命中 0 行
	rows, err = repo.Leave.UpdateStatusIf(ctx, leave.LeaveRequestID, model.StatusPending, map[string]interface{}{
		"status":     model.StatusRejected,
		"decided_at": now,
	})
	if err != nil {
		t.Fatalf("第二次 CAS 失败: %v", err)
	}
	if rows != 0 {
		t.Errorf("第二次 CAS 期望命中 0 行，得到 %d", rows)
	}

	found, err := repo.Leave.GetByID(ctx, leave.LeaveRequestID)
	if err != nil {
		t.Fatalf("查询请假申请失败: %v", err)
	}
	if found.Status != model.StatusApproved {
		t.Errorf("状态应保持 approved，得到 %s", found.Status)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Overlap (half-open interval)
// ═══════════════════════════════════════════════════════════

func TestLeave_FindOverlapping_HalfOpen(t *testing.T) {
	_, emp, lt, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	leave := &model.LeaveRequest{
		EmployeeID:  emp.EmployeeID,
		LeaveTypeID: lt.LeaveTypeID,
		StartAt:     time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
		Hours:       "3.00",
		Status:      model.StatusPending,
	}
	if err := repo.Leave.Create(ctx, leave); err != nil {
		t.Fatalf("创建请假申请失败: %v", err)
	}

	// 真实重叠
	hit, err := repo.Leave.FindOverlapping(ctx, emp.EmployeeID,
		time.Date(2026, 7, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 13, 0, 0, 0, time.UTC), "")
	if err != nil {
		t.Fatalf("FindOverlapping 失败: %v", err)
	}
	if hit == nil {
		t.Fatal("11:00-13:00 应与 9:00-12:00 重叠")
	}

	// 半开区间：结束点相接不算重叠
	hit, err = repo.Leave.FindOverlapping(ctx, emp.EmployeeID,
		time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC), "")
	if err != nil {
		t.Fatalf("FindOverlapping 失败: %v", err)
	}
	if hit != nil {
		t.Error("12:00 起始与 12:00 结束相接，不应算重叠")
	}

	// 排除自身
	hit, err = repo.Leave.FindOverlapping(ctx, emp.EmployeeID,
		time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC), leave.LeaveRequestID)
	if err != nil {
		t.Fatalf("FindOverlapping 失败: %v", err)
	}
	if hit != nil {
		t.Error("排除自身后不应命中")
	}

	// 已取消的申请不参与重叠检测
	if _, err := repo.Leave.UpdateStatusIf(ctx, leave.LeaveRequestID, model.StatusPending, map[string]interface{}{
		"status": model.StatusCancelled,
	}); err != nil {
		t.Fatalf("取消申请失败: %v", err)
	}
	hit, err = repo.Leave.FindOverlapping(ctx, emp.EmployeeID,
		time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 11, 0, 0, 0, time.UTC), "")
	if err != nil {
		t.Fatalf("FindOverlapping 失败: %v", err)
	}
	if hit != nil {
		t.Error("已取消的申请不应参与重叠检测")
	}
}

func TestLeave_Create_ExclusionConstraintBlocksOverlap(t *testing.T) {
	_, emp, lt, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.LeaveRequest{
		EmployeeID:  emp.EmployeeID,
		LeaveTypeID: lt.LeaveTypeID,
		StartAt:     time.Date(2026, 7, 6, 9, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2026, 7, 6, 12, 0, 0, 0, time.UTC),
		Hours:       "3.00",
		Status:      model.StatusPending,
	}
	if err := repo.Leave.Create(ctx, first); err != nil {
		t.Fatalf("创建请假申请失败: %v", err)
	}

	// 绕过应用层预检直接写入重叠区间，约束应拦截并映射为业务错误
	err := repo.Leave.Create(ctx, &model.LeaveRequest{
		EmployeeID:  emp.EmployeeID,
		LeaveTypeID: lt.LeaveTypeID,
		StartAt:     time.Date(2026, 7, 6, 11, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2026, 7, 6, 14, 0, 0, 0, time.UTC),
		Hours:       "3.00",
		Status:      model.StatusPending,
	})
	if !errors.Is(err, pkgerrors.ErrOverlappingRequest) {
		t.Fatalf("重叠写入应返回 ErrOverlappingRequest，得到: %v", err)
	}

	// 半开区间相接的写入放行
	if err := repo.Leave.Create(ctx, &model.LeaveRequest{
		EmployeeID:  emp.EmployeeID,
		LeaveTypeID: lt.LeaveTypeID,
		StartAt:     time.Date(2026, 7, 6, 12, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2026, 7, 6, 14, 0, 0, 0, time.UTC),
		Hours:       "2.00",
		Status:      model.StatusPending,
	}); err != nil {
		t.Fatalf("相接区间应放行，得到: %v", err)
	}

	// 已取消的申请不占用区间
	if _, err := repo.Leave.UpdateStatusIf(ctx, first.LeaveRequestID, model.StatusPending, map[string]interface{}{
		"status": model.StatusCancelled,
	}); err != nil {
		t.Fatalf("取消申请失败: %v", err)
	}
	if err := repo.Leave.Create(ctx, &model.LeaveRequest{
		EmployeeID:  emp.EmployeeID,
		LeaveTypeID: lt.LeaveTypeID,
		StartAt:     time.Date(2026, 7, 6, 9, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2026, 7, 6, 11, 0, 0, 0, time.UTC),
		Hours:       "2.00",
		Status:      model.StatusPending,
	}); err != nil {
		t.Fatalf("已取消申请的区间应可复用，得到: %v", err)
	}
}

func TestOvertime_Create_ExclusionConstraintBlocksOverlap(t *testing.T) {
	_, emp, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	workDate := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
	if err := repo.Overtime.Create(ctx, &model.OvertimeRequest{
		EmployeeID:   emp.EmployeeID,
		WorkDate:     workDate,
		StartAt:      time.Date(2026, 6, 5, 18, 0, 0, 0, time.UTC),
		EndAt:        time.Date(2026, 6, 5, 21, 0, 0, 0, time.UTC),
		PlannedHours: "3.00",
		Status:       model.StatusPending,
	}); err != nil {
		t.Fatalf("创建加班申请失败: %v", err)
	}

	err := repo.Overtime.Create(ctx, &model.OvertimeRequest{
		EmployeeID:   emp.EmployeeID,
		WorkDate:     workDate,
		StartAt:      time.Date(2026, 6, 5, 20, 0, 0, 0, time.UTC),
		EndAt:        time.Date(2026, 6, 5, 22, 0, 0, 0, time.UTC),
		PlannedHours: "2.00",
		Status:       model.StatusPending,
	})
	if !errors.Is(err, pkgerrors.ErrOverlappingRequest) {
		t.Fatalf("重叠写入应返回 ErrOverlappingRequest，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Repository.Transaction rollback
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	_, emp, lt, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var leaveID string
	sentinel := errors.New("触发回滚")
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		leave := &model.LeaveRequest{
			EmployeeID:  emp.EmployeeID,
			LeaveTypeID: lt.LeaveTypeID,
			StartAt:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
			EndAt:       time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC),
			Hours:       "8.00",
			Status:      model.StatusPending,
		}
		if err := txRepo.Leave.Create(ctx, leave); err != nil {
			return err
		}
		leaveID = leave.LeaveRequestID
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("期望回滚错误透传，得到: %v", err)
	}

	if _, err := repo.Leave.GetByID(ctx, leaveID); err == nil {
		t.Fatal("回滚后不应查到请假申请")
	}
}

func TestTransaction_Commit(t *testing.T) {
	_, emp, lt, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var leaveID string
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		leave := &model.LeaveRequest{
			EmployeeID:  emp.EmployeeID,
			LeaveTypeID: lt.LeaveTypeID,
			StartAt:     time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
			EndAt:       time.Date(2026, 8, 2, 18, 0, 0, 0, time.UTC),
			Hours:       "8.00",
			Status:      model.StatusPending,
		}
		if err := txRepo.Leave.Create(ctx, leave); err != nil {
			return err
		}
		leaveID = leave.LeaveRequestID
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction 失败: %v", err)
	}

	found, err := repo.Leave.GetByID(ctx, leaveID)
	if err != nil {
		t.Fatalf("提交后查询失败: %v", err)
	}
	if found.LeaveRequestID != leaveID {
		t.Errorf("ID 不匹配: expected %s, got %s", leaveID, found.LeaveRequestID)
	}
}
