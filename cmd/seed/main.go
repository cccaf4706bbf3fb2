package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/config"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/seed"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/pkg/database"
	applogger "github.com/Mdmehedihasanrifat/vehiclemanagement/pkg/logger"
)

func main() {
	var opts seed.Options
	flag.IntVar(&opts.Employees, "employees", 100, "生成员工数量")
	flag.IntVar(&opts.Vehicles, "vehicles", 30, "生成车辆数量（司机与之 1:1）")
	flag.IntVar(&opts.Allocations, "allocations", 200, "生成分配记录数量")
	flag.IntVar(&opts.Days, "days", 30, "分配日期散布范围（今天前后各 N 天）")
	flag.BoolVar(&opts.Wipe, "wipe", false, "生成前清空现有数据")
	flag.Int64Var(&opts.Seed, "seed", 0, "随机种子（0 表示按时间）")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	if err := seed.Run(db, opts, logger); err != nil {
		logger.Fatal("生成测试数据失败", zap.Error(err))
	}
}
