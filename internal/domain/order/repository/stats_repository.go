package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// StatusCount 管理后台仪表盘的状态聚合
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

// StatsRepository 聚合查询走 sqlx 原生 SQL
type StatsRepository interface {
	StatusCounts(ctx context.Context) ([]StatusCount, error)
}

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

// StatusCounts 各状态订单数
func (r *statsRepository) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS count FROM orders GROUP BY status ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
