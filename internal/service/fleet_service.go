package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/dto"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/repository"
)

// ── 车队模块业务错误 ──

var ErrDriverNotFound = errors.New("司机不存在")

// FleetService 车队参照数据业务接口（只读）
// 员工/车辆/司机的增删改由外部系统负责，这里仅提供查询
type FleetService interface {
	ListEmployees(ctx context.Context, req *dto.FleetListRequest) ([]dto.EmployeeResponse, int64, error)
	GetEmployee(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error)
	ListVehicles(ctx context.Context, req *dto.FleetListRequest) ([]dto.VehicleResponse, int64, error)
	GetVehicle(ctx context.Context, vehicleID string) (*dto.VehicleResponse, error)
	ListDrivers(ctx context.Context, req *dto.FleetListRequest) ([]dto.DriverResponse, int64, error)
	GetDriver(ctx context.Context, driverID string) (*dto.DriverResponse, error)
}

type fleetService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFleetService 创建 FleetService 实例
func NewFleetService(repo *repository.Repository, logger *zap.Logger) FleetService {
	return &fleetService{repo: repo, logger: logger}
}

func (s *fleetService) ListEmployees(ctx context.Context, req *dto.FleetListRequest) ([]dto.EmployeeResponse, int64, error) {
	employees, total, err := s.repo.Employee.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, toEmployeeResponse(&employees[i]))
	}
	return result, total, nil
}

func (s *fleetService) GetEmployee(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	resp := toEmployeeResponse(employee)
	return &resp, nil
}

func (s *fleetService) ListVehicles(ctx context.Context, req *dto.FleetListRequest) ([]dto.VehicleResponse, int64, error) {
	vehicles, total, err := s.repo.Vehicle.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询车辆列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		result = append(result, toVehicleResponse(&vehicles[i]))
	}
	return result, total, nil
}

func (s *fleetService) GetVehicle(ctx context.Context, vehicleID string) (*dto.VehicleResponse, error) {
	vehicle, err := s.repo.Vehicle.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		s.logger.Error("查询车辆失败", zap.Error(err))
		return nil, err
	}

	resp := toVehicleResponse(vehicle)
	return &resp, nil
}

func (s *fleetService) ListDrivers(ctx context.Context, req *dto.FleetListRequest) ([]dto.DriverResponse, int64, error) {
	drivers, total, err := s.repo.Driver.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询司机列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.DriverResponse, 0, len(drivers))
	for i := range drivers {
		result = append(result, toDriverResponse(&drivers[i]))
	}
	return result, total, nil
}

func (s *fleetService) GetDriver(ctx context.Context, driverID string) (*dto.DriverResponse, error) {
	driver, err := s.repo.Driver.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		s.logger.Error("查询司机失败", zap.Error(err))
		return nil, err
	}

	resp := toDriverResponse(driver)
	return &resp, nil
}

// ── 转换辅助 ──

func toEmployeeResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		EmployeeID:    e.EmployeeID,
		Name:          e.Name,
		Department:    e.Department,
		ContactNumber: e.ContactNumber,
	}
}

func toVehicleResponse(v *model.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		VehicleID:   v.VehicleID,
		VehicleName: v.VehicleName,
		Status:      v.Status,
	}
}

func toDriverResponse(d *model.Driver) dto.DriverResponse {
	return dto.DriverResponse{
		DriverID:          d.DriverID,
		Name:              d.Name,
		ContactNumber:     d.ContactNumber,
		LicenseNumber:     d.LicenseNumber,
		AssignedVehicleID: d.AssignedVehicleID,
	}
}
