package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 审核指标
var (
	scoreDistribution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moderation_confidence",
			Help:    "审核置信度分布",
			Buckets: []float64{0, 10, 25, 50, 80, 100},
		},
	)

	decisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_decisions_total",
			Help: "按处置动作统计的审核次数",
		},
		[]string{"action", "content_type"},
	)

	failOpenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_fail_open_total",
			Help: "基础设施故障导致放行的次数",
		},
		[]string{"operation"},
	)

	banGateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_ban_gate_checks_total",
			Help: "封禁状态检查次数",
		},
		[]string{"source", "banned"}, // source: cache/db/error
	)
)
