package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrDuplicate 唯一索引冲突
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced 记录仍被帖子引用，拒绝删除
	ErrReferenced = errors.New("record is referenced by generated posts")
	// ErrURLTooLong 内容链接超过 model.MaxContentURLLength
	ErrURLTooLong = errors.New("content url too long")
)

// translate 把 gorm 的唯一键错误转为仓储层错误
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
