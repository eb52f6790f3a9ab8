package moderation

// 固定阈值，区间下界包含在更严重的动作里
const (
	ThresholdReview = 25
	ThresholdDelete = 50
	ThresholdBan    = 80
)

// DecideAction 根据置信度选择处置动作
func DecideAction(confidence int) Action {
	switch {
	case confidence >= ThresholdBan:
		return ActionBan
	case confidence >= ThresholdDelete:
		return ActionDelete
	case confidence >= ThresholdReview:
		return ActionReview
	default:
		return ActionAllow
	}
}
