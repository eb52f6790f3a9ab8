// Package moderation 实现基于规则的内容审核：词库打分、处置决策、自动执法以及封禁状态检查。
package moderation

// Action 处置动作，只由置信度决定
type Action string

const (
	ActionAllow  Action = "allow"  // 放行
	ActionReview Action = "review" // 放行并进入人工审核
	ActionDelete Action = "delete" // 拒绝内容
	ActionBan    Action = "ban"    // 拒绝内容并临时封禁
)

// severity 用于比较动作的严重程度
func (a Action) severity() int {
	switch a {
	case ActionReview:
		return 1
	case ActionDelete:
		return 2
	case ActionBan:
		return 3
	default:
		return 0
	}
}

// AtLeast 检查动作是否不弱于 other
func (a Action) AtLeast(other Action) bool {
	return a.severity() >= other.severity()
}

// ModerationResult 单次打分结果，不落库
type ModerationResult struct {
	IsClean      bool     `json:"isClean"`
	Confidence   int      `json:"confidence"`
	Reasons      []string `json:"reasons"`
	MatchedTerms []string `json:"matchedTerms"`
	Action       Action   `json:"action"`
}

// 原因描述（面向管理员，土耳其语）
const (
	reasonInappropriateWordFmt   = "Uygunsuz kelime tespit edildi: %s"
	reasonReligiousDisrespectFmt = "Dini kavramlara saygısızlık: %s"

	ReasonContentPattern = "Topluluk değerlerine aykırı içerik kalıbı tespit edildi"
	ReasonThreat         = "Agresif dil ve tehdit tespit edildi"
	ReasonShouting       = "Aşırı büyük harf kullanımı (bağırma)"
	ReasonRepeatedChars  = "Aşırı tekrarlanan karakterler (spam)"
)
