package model

// ContentLink 举报关联的内容：帖子、祈祷请求，或者不关联
// 零值表示不关联。只能通过构造函数创建，保证不会同时关联两种内容。
type ContentLink struct {
	kind ContentType
	id   string
}

// NoLink 不关联任何内容
func NoLink() ContentLink {
	return ContentLink{}
}

// LinkPost 关联帖子
func LinkPost(postID string) ContentLink {
	if postID == "" {
		return ContentLink{}
	}
	return ContentLink{kind: ContentTypePost, id: postID}
}

// LinkDuaRequest 关联祈祷请求
func LinkDuaRequest(duaRequestID string) ContentLink {
	if duaRequestID == "" {
		return ContentLink{}
	}
	return ContentLink{kind: ContentTypeDuaRequest, id: duaRequestID}
}

// LinkFor 根据内容类型构造关联；评论没有可关联的字段
func LinkFor(contentType ContentType, contentID string) ContentLink {
	switch contentType {
	case ContentTypePost:
		return LinkPost(contentID)
	case ContentTypeDuaRequest:
		return LinkDuaRequest(contentID)
	default:
		return NoLink()
	}
}

// Kind 返回关联的内容类型，不关联时为空
func (l ContentLink) Kind() ContentType {
	return l.kind
}

// ID 返回关联的内容 ID
func (l ContentLink) ID() string {
	return l.id
}

// IsNone 是否不关联任何内容
func (l ContentLink) IsNone() bool {
	return l.kind == ""
}

// PostID 关联帖子时返回帖子 ID
func (l ContentLink) PostID() (string, bool) {
	return l.id, l.kind == ContentTypePost
}

// DuaRequestID 关联祈祷请求时返回其 ID
func (l ContentLink) DuaRequestID() (string, bool) {
	return l.id, l.kind == ContentTypeDuaRequest
}
