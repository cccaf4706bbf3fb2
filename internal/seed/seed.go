package seed

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
)

// 测试数据生成器。写入绕过只读 Repository，直接走 *gorm.DB，
// 仅供 cmd/seed 在开发/演示环境准备车队参照数据与分配记录。

const insertBatchSize = 200

var (
	departments = []string{"行政部", "市场部", "研发部", "财务部", "人事部", "后勤部"}

	surnames   = []string{"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴"}
	givenNames = []string{"伟", "芳", "娜", "敏", "静", "磊", "军", "洋", "勇", "艳", "杰", "涛"}

	vehicleNames = []string{"别克GL8", "丰田凯美瑞", "大众帕萨特", "本田雅阁", "日产天籁", "比亚迪汉", "红旗H5", "奥迪A6L"}
)

// Options 数据生成参数
type Options struct {
	Employees   int   // 员工数量
	Vehicles    int   // 车辆数量（司机与之 1:1）
	Allocations int   // 分配记录数量（同车同日 active 自动去重）
	Days        int   // 分配日期散布范围：今天前后各 Days 天
	Wipe        bool  // 生成前清空现有数据
	Seed        int64 // 随机种子，0 表示按时间
}

// Run 生成并写入测试数据
func Run(db *gorm.DB, opts Options, logger *zap.Logger) error {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if opts.Wipe {
		// 先删子表再删参照表
		for _, m := range []interface{}{&model.Allocation{}, &model.Driver{}, &model.Vehicle{}, &model.Employee{}} {
			if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("清空现有数据失败: %w", err)
			}
		}
		logger.Info("已清空现有数据")
	}

	employees := genEmployees(rng, opts.Employees)
	if err := db.CreateInBatches(employees, insertBatchSize).Error; err != nil {
		return fmt.Errorf("写入员工失败: %w", err)
	}

	vehicles := genVehicles(rng, opts.Vehicles)
	if err := db.CreateInBatches(vehicles, insertBatchSize).Error; err != nil {
		return fmt.Errorf("写入车辆失败: %w", err)
	}

	drivers := genDrivers(rng, vehicles)
	if err := db.CreateInBatches(drivers, insertBatchSize).Error; err != nil {
		return fmt.Errorf("写入司机失败: %w", err)
	}

	allocations := genAllocations(rng, employees, drivers, opts.Allocations, opts.Days)
	if len(allocations) > 0 {
		if err := db.CreateInBatches(allocations, insertBatchSize).Error; err != nil {
			return fmt.Errorf("写入分配记录失败: %w", err)
		}
	}

	logger.Info("测试数据生成完成",
		zap.Int64("seed", seed),
		zap.Int("employees", len(employees)),
		zap.Int("vehicles", len(vehicles)),
		zap.Int("drivers", len(drivers)),
		zap.Int("allocations", len(allocations)),
	)
	return nil
}

func genEmployees(rng *rand.Rand, n int) []model.Employee {
	employees := make([]model.Employee, 0, n)
	for i := 0; i < n; i++ {
		employees = append(employees, model.Employee{
			EmployeeID:    fmt.Sprintf("EMP%04d", i+1),
			Name:          surnames[rng.Intn(len(surnames))] + givenNames[rng.Intn(len(givenNames))],
			Department:    departments[rng.Intn(len(departments))],
			ContactNumber: randPhone(rng),
		})
	}
	return employees
}

func genVehicles(rng *rand.Rand, n int) []model.Vehicle {
	vehicles := make([]model.Vehicle, 0, n)
	for i := 0; i < n; i++ {
		vehicles = append(vehicles, model.Vehicle{
			VehicleID:   fmt.Sprintf("VEH%05d", i+1),
			VehicleName: vehicleNames[rng.Intn(len(vehicleNames))],
			Status:      randVehicleStatus(rng),
		})
	}
	return vehicles
}

// genDrivers 每辆车配一名司机（1:1 绑定）
func genDrivers(rng *rand.Rand, vehicles []model.Vehicle) []model.Driver {
	drivers := make([]model.Driver, 0, len(vehicles))
	for i, v := range vehicles {
		drivers = append(drivers, model.Driver{
			DriverID:          fmt.Sprintf("DRV%04d", i+1),
			Name:              surnames[rng.Intn(len(surnames))] + givenNames[rng.Intn(len(givenNames))],
			ContactNumber:     randPhone(rng),
			LicenseNumber:     fmt.Sprintf("LIC%08d", rng.Intn(100000000)),
			AssignedVehicleID: v.VehicleID,
		})
	}
	return drivers
}

// genAllocations 随机车辆 × 随机日期组合生成分配记录
// 同车同日的 active 组合去重，保证与部分唯一索引不冲突；
// 过去日期的记录状态标记为 completed
func genAllocations(rng *rand.Rand, employees []model.Employee, drivers []model.Driver, n, days int) []model.Allocation {
	if n == 0 || len(employees) == 0 || len(drivers) == 0 {
		return nil
	}
	if days <= 0 {
		days = 30
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	taken := make(map[string]bool, n)
	allocations := make([]model.Allocation, 0, n)
	for attempts := 0; len(allocations) < n && attempts < n*10; attempts++ {
		driver := drivers[rng.Intn(len(drivers))]
		date := today.AddDate(0, 0, rng.Intn(2*days+1)-days)

		key := driver.AssignedVehicleID + "|" + date.Format("2006-01-02")
		if taken[key] {
			continue
		}
		taken[key] = true

		status := model.AllocationStatusActive
		if date.Before(today) {
			status = model.AllocationStatusCompleted
		} else if rng.Intn(10) == 0 {
			status = model.AllocationStatusCancelled
		}

		allocations = append(allocations, model.Allocation{
			EmployeeID:     employees[rng.Intn(len(employees))].EmployeeID,
			VehicleID:      driver.AssignedVehicleID,
			DriverID:       driver.DriverID,
			AllocationDate: date,
			Status:         status,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return allocations
}

func randPhone(rng *rand.Rand) string {
	return fmt.Sprintf("13%09d", rng.Intn(1000000000))
}

// randVehicleStatus 按权重取车辆状态：约 80% 可用、15% 维修、5% 退役
func randVehicleStatus(rng *rand.Rand) string {
	switch r := rng.Intn(100); {
	case r < 80:
		return model.VehicleStatusAvailable
	case r < 95:
		return model.VehicleStatusMaintenance
	default:
		return model.VehicleStatusRetired
	}
}
