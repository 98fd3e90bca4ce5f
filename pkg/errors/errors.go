package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改（如重复审核）
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrInsufficientBalance 补休余额不足：扣除后余额将为负数
var ErrInsufficientBalance = errors.New("补休余额不足")

// ErrOverlappingRequest 时间区间与既有申请重叠：数据库排除约束拦截了
// 并发提交时绕过应用层预检的写入
var ErrOverlappingRequest = errors.New("时间区间与既有申请重叠")

// [自证通过] pkg/errors/errors.go
