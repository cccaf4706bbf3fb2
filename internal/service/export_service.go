package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/dto"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成导出文件失败")

// 单次日历导出的事件数上限（按天分配，一年足够）
const calendarEventLimit = 366

// ExportService 导出业务接口
//
// 设计说明：
//   - 历史导出复用 HistoryService 的筛选与联查语义，输出 Excel (.xlsx)
//   - 日历导出按车辆生成 iCalendar (.ics)，每条 active 分配一条全天事件
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportHistory 导出分配历史为 Excel
	ExportHistory(ctx context.Context, req *dto.HistoryListRequest) (*bytes.Buffer, string, error)
	// ExportCalendar 导出某车辆的分配日历 (.ics)
	ExportCalendar(ctx context.Context, vehicleID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo    *repository.Repository
	history HistoryService
	logger  *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, history HistoryService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, history: history, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportHistory — 导出分配历史为 Excel
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportHistory(ctx context.Context, req *dto.HistoryListRequest) (*bytes.Buffer, string, error) {
	records, _, err := s.history.Query(ctx, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "分配历史"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"分配ID", "员工编号", "员工姓名", "车辆编号", "车辆名称", "司机编号", "司机姓名", "分配日期", "状态", "创建时间", "更新时间"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", ErrExportGenerateFail
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	for rowIdx, r := range records {
		values := []interface{}{
			r.AllocationID,
			r.EmployeeID, derefOrEmpty(r.EmployeeName),
			r.VehicleID, derefOrEmpty(r.VehicleName),
			r.DriverID, derefOrEmpty(r.DriverName),
			r.AllocationDate, r.Status,
			r.CreatedAt, r.UpdatedAt,
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, "", ErrExportGenerateFail
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "K", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("allocation_history_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ════════════════════════════════════════════════════════════
// ExportCalendar — 车辆分配日历 (.ics)
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, vehicleID string) (*bytes.Buffer, string, error) {
	vehicle, err := s.repo.Vehicle.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrVehicleNotFound
		}
		s.logger.Error("查询车辆失败", zap.Error(err))
		return nil, "", err
	}

	allocations, _, err := s.repo.Allocation.ListHistory(ctx, &repository.HistoryFilter{
		VehicleID: vehicleID,
		Status:    model.AllocationStatusActive,
		Limit:     calendarEventLimit,
	})
	if err != nil {
		s.logger.Error("查询车辆分配失败", zap.Error(err))
		return nil, "", err
	}
	if len(allocations) == 0 {
		return nil, "", ErrNoRecordsFound
	}

	now := time.Now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//vehiclemanagement//allocation-calendar//CN")

	for i := range allocations {
		a := &allocations[i]

		summary := fmt.Sprintf("用车分配: %s", vehicle.VehicleName)
		if employee, err := s.repo.Employee.GetByID(ctx, a.EmployeeID); err == nil {
			summary = fmt.Sprintf("用车分配: %s → %s", vehicle.VehicleName, employee.Name)
		}

		// 分配为整日占用，生成全天事件
		event := cal.AddEvent(a.AllocationID)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(a.AllocationDate)
		event.SetAllDayEndAt(a.AllocationDate.AddDate(0, 0, 1))
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("员工 %s，司机 %s", a.EmployeeID, a.DriverID))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("vehicle_%s_allocations.ics", vehicleID)
	return buf, filename, nil
}

// derefOrEmpty 联查名称缺失时以空串写入单元格
func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
