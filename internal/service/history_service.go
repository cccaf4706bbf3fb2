package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/dto"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/repository"
)

// ── 历史模块业务错误 ──

var ErrNoRecordsFound = errors.New("没有符合条件的分配记录")

// HistoryService 分配历史投影业务接口
//
// 按条件筛选分配记录，按日期倒序分页，并联查当前参照数据
// 构建反规范化视图。筛选结果为空视为 ErrNoRecordsFound
// （沿用既有行为，空列表不作为成功结果返回）。
type HistoryService interface {
	Query(ctx context.Context, req *dto.HistoryListRequest) ([]dto.AllocationDetailResponse, int64, error)
}

type historyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewHistoryService 创建 HistoryService 实例
func NewHistoryService(repo *repository.Repository, logger *zap.Logger) HistoryService {
	return &historyService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Query — 分配历史查询
// ════════════════════════════════════════════════════════════

func (s *historyService) Query(ctx context.Context, req *dto.HistoryListRequest) ([]dto.AllocationDetailResponse, int64, error) {
	filter, err := buildHistoryFilter(req)
	if err != nil {
		return nil, 0, err
	}

	allocations, total, err := s.repo.Allocation.ListHistory(ctx, filter)
	if err != nil {
		s.logger.Error("查询分配历史失败", zap.Error(err))
		return nil, 0, err
	}
	if len(allocations) == 0 {
		return nil, 0, ErrNoRecordsFound
	}

	result, err := s.join(ctx, allocations)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// buildHistoryFilter 由请求参数构建仓储层筛选条件
// 日期范围仅当两端同时给出时生效
func buildHistoryFilter(req *dto.HistoryListRequest) (*repository.HistoryFilter, error) {
	filter := &repository.HistoryFilter{
		EmployeeID: req.EmployeeID,
		VehicleID:  req.VehicleID,
		Status:     req.Status,
		Skip:       req.Skip,
		Limit:      req.GetLimit(),
	}

	if req.StartDate != "" && req.EndDate != "" {
		start, err := time.Parse(dto.DateLayout, req.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := time.Parse(dto.DateLayout, req.EndDate)
		if err != nil {
			return nil, err
		}
		filter.StartDate = &start
		filter.EndDate = &end
	}

	return filter, nil
}

// join 批量联查参照数据，同一 ID 只查一次
func (s *historyService) join(ctx context.Context, allocations []model.Allocation) ([]dto.AllocationDetailResponse, error) {
	employeeNames := make(map[string]*string)
	vehicleNames := make(map[string]*string)
	driverNames := make(map[string]*string)

	result := make([]dto.AllocationDetailResponse, 0, len(allocations))
	for i := range allocations {
		a := &allocations[i]

		empName, ok := employeeNames[a.EmployeeID]
		if !ok {
			employee, err := s.repo.Employee.GetByID(ctx, a.EmployeeID)
			switch {
			case err == nil:
				empName = &employee.Name
			case errors.Is(err, gorm.ErrRecordNotFound):
				empName = nil
			default:
				s.logger.Error("联查员工失败", zap.Error(err))
				return nil, err
			}
			employeeNames[a.EmployeeID] = empName
		}

		vehName, ok := vehicleNames[a.VehicleID]
		if !ok {
			vehicle, err := s.repo.Vehicle.GetByID(ctx, a.VehicleID)
			switch {
			case err == nil:
				vehName = &vehicle.VehicleName
			case errors.Is(err, gorm.ErrRecordNotFound):
				vehName = nil
			default:
				s.logger.Error("联查车辆失败", zap.Error(err))
				return nil, err
			}
			vehicleNames[a.VehicleID] = vehName
		}

		drvName, ok := driverNames[a.DriverID]
		if !ok {
			driver, err := s.repo.Driver.GetByID(ctx, a.DriverID)
			switch {
			case err == nil:
				drvName = &driver.Name
			case errors.Is(err, gorm.ErrRecordNotFound):
				drvName = nil
			default:
				s.logger.Error("联查司机失败", zap.Error(err))
				return nil, err
			}
			driverNames[a.DriverID] = drvName
		}

		result = append(result, dto.AllocationDetailResponse{
			AllocationResponse: toAllocationResponse(a),
			EmployeeName:       empName,
			VehicleName:        vehName,
			DriverName:         drvName,
		})
	}

	return result, nil
}
