package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/dto"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
)

func newTestExportService(t *testing.T) ExportService {
	t.Helper()
	repo := newTestRepo()
	seedHistory(t, repo.Allocation.(*mockAllocationRepo))
	history := NewHistoryService(repo, zap.NewNop())
	return NewExportService(repo, history, zap.NewNop())
}

func TestExportService_ExportHistory_Success(t *testing.T) {
	svc := newTestExportService(t)

	buf, filename, err := svc.ExportHistory(context.Background(), &dto.HistoryListRequest{})
	if err != nil {
		t.Fatalf("导出历史失败: %v", err)
	}
	if !strings.HasPrefix(filename, "allocation_history_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名不符合约定: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("分配历史")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 表头 + 5 条记录
	if len(rows) != 6 {
		t.Fatalf("want 6 行, got %d", len(rows))
	}
	if rows[0][0] != "分配ID" || rows[0][3] != "车辆编号" {
		t.Errorf("表头不匹配: %v", rows[0])
	}
}

func TestExportService_ExportHistory_Filtered(t *testing.T) {
	svc := newTestExportService(t)

	buf, _, err := svc.ExportHistory(context.Background(), &dto.HistoryListRequest{
		EmployeeID: "EMP0002",
	})
	if err != nil {
		t.Fatalf("导出历史失败: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("打开 xlsx 失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("分配历史")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("筛选导出 want 3 行, got %d", len(rows))
	}
}

func TestExportService_ExportHistory_Empty(t *testing.T) {
	repo := newTestRepo()
	history := NewHistoryService(repo, zap.NewNop())
	svc := NewExportService(repo, history, zap.NewNop())

	_, _, err := svc.ExportHistory(context.Background(), &dto.HistoryListRequest{})
	if !errors.Is(err, ErrNoRecordsFound) {
		t.Errorf("空结果 want ErrNoRecordsFound, got %v", err)
	}
}

func TestExportService_ExportCalendar_Success(t *testing.T) {
	svc := newTestExportService(t)

	buf, filename, err := svc.ExportCalendar(context.Background(), "VEH00001")
	if err != nil {
		t.Fatalf("导出日历失败: %v", err)
	}
	if filename != "vehicle_VEH00001_allocations.ics" {
		t.Errorf("文件名不符合约定: %s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "END:VCALENDAR") {
		t.Fatal("导出内容应为 iCalendar")
	}
	// VEH00001 有两条 active 记录（completed 不导出）
	if got := strings.Count(content, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("事件数 want 2, got %d", got)
	}
	// 全天事件按日期值输出
	if !strings.Contains(content, "DTSTART;VALUE=DATE:") {
		t.Error("事件应为全天格式")
	}
	if !strings.Contains(content, "别克GL8") {
		t.Error("事件摘要应含车辆名称")
	}
}

func TestExportService_ExportCalendar_Errors(t *testing.T) {
	svc := newTestExportService(t)
	ctx := context.Background()

	if _, _, err := svc.ExportCalendar(ctx, "VEH99999"); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("want ErrVehicleNotFound, got %v", err)
	}

	// VEH00003 存在但无任何分配
	if _, _, err := svc.ExportCalendar(ctx, "VEH00003"); !errors.Is(err, ErrNoRecordsFound) {
		t.Errorf("want ErrNoRecordsFound, got %v", err)
	}
}

func TestExportService_ExportCalendar_SummaryFallback(t *testing.T) {
	repo := newTestRepo()
	mock := repo.Allocation.(*mockAllocationRepo)
	seedHistory(t, mock)
	// 清掉员工参照，摘要应退化为仅含车辆名称
	repo.Employee.(*mockEmployeeRepo).employees = map[string]model.Employee{}

	history := NewHistoryService(repo, zap.NewNop())
	svc := NewExportService(repo, history, zap.NewNop())

	buf, _, err := svc.ExportCalendar(context.Background(), "VEH00002")
	if err != nil {
		t.Fatalf("导出日历失败: %v", err)
	}
	if !strings.Contains(buf.String(), "SUMMARY:用车分配: 丰田凯美瑞") {
		t.Error("参照缺失时摘要应退化为车辆名称")
	}
}
