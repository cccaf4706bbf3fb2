package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/dto"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
)

func TestAllocationService_Create_Success(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID:     "EMP0001",
		VehicleID:      "VEH00001",
		AllocationDate: futureDate(1),
	})
	if err != nil {
		t.Fatalf("创建分配应成功, got %v", err)
	}
	if resp.AllocationID == "" {
		t.Error("应生成 allocation_id")
	}
	if resp.DriverID != "DRV0001" {
		t.Errorf("driver_id 应派生自车辆绑定, want DRV0001, got %s", resp.DriverID)
	}
	if resp.Status != model.AllocationStatusActive {
		t.Errorf("缺省状态应为 active, got %s", resp.Status)
	}
	if resp.AllocationDate != futureDate(1) {
		t.Errorf("分配日期不匹配, want %s, got %s", futureDate(1), resp.AllocationDate)
	}
	if resp.CreatedAt == "" || resp.UpdatedAt == "" {
		t.Error("created_at / updated_at 应由服务端写入")
	}
}

func TestAllocationService_Create_Today(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())

	// 当天日期属于合法下界
	_, err := svc.Create(context.Background(), &dto.CreateAllocationRequest{
		EmployeeID:     "EMP0001",
		VehicleID:      "VEH00001",
		AllocationDate: futureDate(0),
	})
	if err != nil {
		t.Fatalf("当天分配应成功, got %v", err)
	}
}

func TestAllocationService_Create_Validation(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *dto.CreateAllocationRequest
		wantErr error
	}{
		{
			name: "员工不存在",
			req: &dto.CreateAllocationRequest{
				EmployeeID: "EMP9999", VehicleID: "VEH00001", AllocationDate: futureDate(1),
			},
			wantErr: ErrEmployeeNotFound,
		},
		{
			name: "车辆不存在",
			req: &dto.CreateAllocationRequest{
				EmployeeID: "EMP0001", VehicleID: "VEH99999", AllocationDate: futureDate(1),
			},
			wantErr: ErrVehicleNotFound,
		},
		{
			name: "车辆维修中",
			req: &dto.CreateAllocationRequest{
				EmployeeID: "EMP0001", VehicleID: "VEH00003", AllocationDate: futureDate(1),
			},
			wantErr: ErrVehicleUnavailable,
		},
		{
			name: "过去日期",
			req: &dto.CreateAllocationRequest{
				EmployeeID: "EMP0001", VehicleID: "VEH00001", AllocationDate: futureDate(-1),
			},
			wantErr: ErrPastDateRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAllocationService_Create_CheckOrder(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())

	// 员工和日期同时非法时应先报员工不存在（校验按序短路）
	_, err := svc.Create(context.Background(), &dto.CreateAllocationRequest{
		EmployeeID:     "EMP9999",
		VehicleID:      "VEH99999",
		AllocationDate: futureDate(-3),
	})
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("校验顺序错误, want ErrEmployeeNotFound, got %v", err)
	}
}

func TestAllocationService_Create_NoDriver(t *testing.T) {
	repo := newTestRepo()
	// VEH00003 未绑定司机，把它刷成 available 以触达司机检查
	repo.Vehicle.(*mockVehicleRepo).vehicles["VEH00003"] = model.Vehicle{
		VehicleID: "VEH00003", VehicleName: "大众帕萨特", Status: model.VehicleStatusAvailable,
	}
	svc := NewAllocationService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), &dto.CreateAllocationRequest{
		EmployeeID:     "EMP0001",
		VehicleID:      "VEH00003",
		AllocationDate: futureDate(1),
	})
	if !errors.Is(err, ErrNoDriverAssigned) {
		t.Errorf("want ErrNoDriverAssigned, got %v", err)
	}
}

func TestAllocationService_Create_Conflict(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	first := &dto.CreateAllocationRequest{
		EmployeeID: "EMP0001", VehicleID: "VEH00001", AllocationDate: futureDate(2),
	}
	if _, err := svc.Create(ctx, first); err != nil {
		t.Fatalf("首次分配应成功, got %v", err)
	}

	// 同车同日再次分配（不同员工）应冲突
	_, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0002", VehicleID: "VEH00001", AllocationDate: futureDate(2),
	})
	if !errors.Is(err, ErrAllocationConflict) {
		t.Errorf("want ErrAllocationConflict, got %v", err)
	}

	// 同车不同日不冲突
	if _, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0002", VehicleID: "VEH00001", AllocationDate: futureDate(3),
	}); err != nil {
		t.Errorf("同车不同日应成功, got %v", err)
	}

	// 不同车同日不冲突
	if _, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0002", VehicleID: "VEH00002", AllocationDate: futureDate(2),
	}); err != nil {
		t.Errorf("不同车同日应成功, got %v", err)
	}
}

func TestAllocationService_Create_ConflictIgnoresInactive(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0001", VehicleID: "VEH00001", AllocationDate: futureDate(2),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	cancelled := model.AllocationStatusCancelled
	if _, err := svc.Update(ctx, resp.AllocationID, &dto.UpdateAllocationRequest{Status: &cancelled}); err != nil {
		t.Fatalf("取消分配失败: %v", err)
	}

	// 原记录已非 active，同车同日可重新分配
	if _, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0002", VehicleID: "VEH00001", AllocationDate: futureDate(2),
	}); err != nil {
		t.Errorf("非 active 记录不应占用唯一槽位, got %v", err)
	}
}

// 预检查通过后存储层唯一索引兜底的路径
func TestAllocationService_Create_StoreConflictFallback(t *testing.T) {
	repo := newTestRepo()
	mock := repo.Allocation.(*mockAllocationRepo)
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	date, _ := time.Parse(dto.DateLayout, futureDate(5))
	// 直接塞入存储，绕过服务层，模拟并发抢先写入
	if err := mock.Create(ctx, &model.Allocation{
		EmployeeID: "EMP0002", VehicleID: "VEH00002", DriverID: "DRV0002",
		AllocationDate: date, Status: model.AllocationStatusActive,
	}); err != nil {
		t.Fatalf("预置分配失败: %v", err)
	}

	_, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0001", VehicleID: "VEH00002", AllocationDate: futureDate(5),
	})
	if !errors.Is(err, ErrAllocationConflict) {
		t.Errorf("唯一索引冲突应转译为 ErrAllocationConflict, got %v", err)
	}
}

// 并发创建同车同日分配，恰好一个成功
func TestAllocationService_Create_Concurrent(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	var succeeded, conflicted int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, &dto.CreateAllocationRequest{
				EmployeeID: "EMP0001", VehicleID: "VEH00001", AllocationDate: futureDate(7),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAllocationConflict):
				conflicted++
			default:
				t.Errorf("意外错误: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("恰好一个请求应成功, got %d", succeeded)
	}
	if conflicted != workers-1 {
		t.Errorf("其余请求应冲突, want %d, got %d", workers-1, conflicted)
	}
}

func TestAllocationService_Update_Success(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0001", VehicleID: "VEH00001", AllocationDate: futureDate(1),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	newDate := futureDate(4)
	completed := model.AllocationStatusCompleted
	resp, err := svc.Update(ctx, created.AllocationID, &dto.UpdateAllocationRequest{
		AllocationDate: &newDate,
		Status:         &completed,
	})
	if err != nil {
		t.Fatalf("更新应成功, got %v", err)
	}
	if resp.AllocationDate != newDate {
		t.Errorf("日期应更新为 %s, got %s", newDate, resp.AllocationDate)
	}
	if resp.Status != completed {
		t.Errorf("状态应更新为 %s, got %s", completed, resp.Status)
	}
	if resp.EmployeeName == nil || *resp.EmployeeName != "张伟" {
		t.Error("响应应联查员工姓名")
	}
	if resp.VehicleName == nil || *resp.VehicleName != "别克GL8" {
		t.Error("响应应联查车辆名称")
	}
	if resp.DriverName == nil || *resp.DriverName != "王强" {
		t.Error("响应应联查司机姓名")
	}
}

func TestAllocationService_Update_FreeFormStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0001", VehicleID: "VEH00001", AllocationDate: futureDate(1),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 状态不做状态机约束，自定义取值也接受
	custom := "postponed"
	resp, err := svc.Update(ctx, created.AllocationID, &dto.UpdateAllocationRequest{Status: &custom})
	if err != nil {
		t.Fatalf("自定义状态应被接受, got %v", err)
	}
	if resp.Status != custom {
		t.Errorf("want %s, got %s", custom, resp.Status)
	}
}

func TestAllocationService_Update_Errors(t *testing.T) {
	repo := newTestRepo()
	mock := repo.Allocation.(*mockAllocationRepo)
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	t.Run("记录不存在", func(t *testing.T) {
		d := futureDate(1)
		_, err := svc.Update(ctx, "00000000-0000-0000-0000-000000000000", &dto.UpdateAllocationRequest{AllocationDate: &d})
		if !errors.Is(err, ErrAllocationNotFound) {
			t.Errorf("want ErrAllocationNotFound, got %v", err)
		}
	})

	t.Run("过期分配不可修改", func(t *testing.T) {
		past, _ := time.Parse(dto.DateLayout, futureDate(-2))
		stale := &model.Allocation{
			EmployeeID: "EMP0001", VehicleID: "VEH00001", DriverID: "DRV0001",
			AllocationDate: past, Status: model.AllocationStatusActive,
		}
		if err := mock.Create(ctx, stale); err != nil {
			t.Fatalf("预置过期分配失败: %v", err)
		}

		d := futureDate(1)
		_, err := svc.Update(ctx, stale.AllocationID, &dto.UpdateAllocationRequest{AllocationDate: &d})
		if !errors.Is(err, ErrPastAllocationImmutable) {
			t.Errorf("want ErrPastAllocationImmutable, got %v", err)
		}
	})

	t.Run("改到过去日期", func(t *testing.T) {
		created, err := svc.Create(ctx, &dto.CreateAllocationRequest{
			EmployeeID: "EMP0001", VehicleID: "VEH00001", AllocationDate: futureDate(1),
		})
		if err != nil {
			t.Fatalf("创建失败: %v", err)
		}
		d := futureDate(-1)
		_, err = svc.Update(ctx, created.AllocationID, &dto.UpdateAllocationRequest{AllocationDate: &d})
		if !errors.Is(err, ErrPastDateRejected) {
			t.Errorf("want ErrPastDateRejected, got %v", err)
		}
	})
}

func TestAllocationService_Update_Conflict(t *testing.T) {
	repo := newTestRepo()
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	a, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0001", VehicleID: "VEH00001", AllocationDate: futureDate(1),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if _, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0002", VehicleID: "VEH00001", AllocationDate: futureDate(2),
	}); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 改期撞上同车另一条 active 记录
	d := futureDate(2)
	_, err = svc.Update(ctx, a.AllocationID, &dto.UpdateAllocationRequest{AllocationDate: &d})
	if !errors.Is(err, ErrAllocationConflict) {
		t.Errorf("want ErrAllocationConflict, got %v", err)
	}

	// 改成自身原日期不算冲突（排除自身）
	same := futureDate(1)
	if _, err := svc.Update(ctx, a.AllocationID, &dto.UpdateAllocationRequest{AllocationDate: &same}); err != nil {
		t.Errorf("与自身同日不应判冲突, got %v", err)
	}
}

func TestAllocationService_Delete_Success(t *testing.T) {
	repo := newTestRepo()
	mock := repo.Allocation.(*mockAllocationRepo)
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateAllocationRequest{
		EmployeeID: "EMP0001", VehicleID: "VEH00001", AllocationDate: futureDate(1),
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	resp, err := svc.Delete(ctx, created.AllocationID)
	if err != nil {
		t.Fatalf("删除应成功, got %v", err)
	}
	if resp.AllocationID != created.AllocationID {
		t.Errorf("响应应回带 allocation_id, got %s", resp.AllocationID)
	}

	// 物理删除：记录不可再查
	if _, err := mock.GetByID(ctx, created.AllocationID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Error("删除后记录应不存在")
	}

	// 再删报不存在
	if _, err := svc.Delete(ctx, created.AllocationID); !errors.Is(err, ErrAllocationNotFound) {
		t.Errorf("重复删除 want ErrAllocationNotFound, got %v", err)
	}
}

func TestAllocationService_Delete_PastImmutable(t *testing.T) {
	repo := newTestRepo()
	mock := repo.Allocation.(*mockAllocationRepo)
	svc := NewAllocationService(repo, zap.NewNop())
	ctx := context.Background()

	past, _ := time.Parse(dto.DateLayout, futureDate(-3))
	stale := &model.Allocation{
		EmployeeID: "EMP0001", VehicleID: "VEH00001", DriverID: "DRV0001",
		AllocationDate: past, Status: model.AllocationStatusCompleted,
	}
	if err := mock.Create(ctx, stale); err != nil {
		t.Fatalf("预置过期分配失败: %v", err)
	}

	_, err := svc.Delete(ctx, stale.AllocationID)
	if !errors.Is(err, ErrPastAllocationImmutable) {
		t.Errorf("want ErrPastAllocationImmutable, got %v", err)
	}
}
