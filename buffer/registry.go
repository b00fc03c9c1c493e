// Package buffer tracks byte buffers that cross the host boundary.
//
// Every buffer handed to the host is published at refcount 1. Any party may
// retain it; the last matching release frees it. The registry is the single
// source of truth for whether a buffer is still needed.
package buffer

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"
)

var (
	// ErrProtocolViolation 表示对未登记的缓冲区执行了 release（多半是重复释放）。
	ErrProtocolViolation = errors.New("buffer: 协议错误")
	// ErrAllocation 表示无法分配返回给调用方的缓冲区。
	ErrAllocation = errors.New("buffer: 分配失败")
)

// Allocator 负责缓冲区的实际分配与释放。
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

// HeapAllocator 使用 Go 堆；Free 只是放弃引用，由 GC 回收。
type HeapAllocator struct{}

func (HeapAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: 长度为负 %d", ErrAllocation, n)
	}
	return make([]byte, n), nil
}

func (HeapAllocator) Free([]byte) {}

type entry struct {
	length int
	refs   int
}

// Registry 是带互斥锁的“缓冲区 → 引用计数”表。
// 条目存在当且仅当引用计数大于 0。
type Registry struct {
	mu      sync.Mutex
	entries map[*byte]*entry
	alloc   Allocator
	logger  *log.Logger
}

// Option 配置 Registry。
type Option func(*Registry)

// WithAllocator 替换默认的堆分配器。
func WithAllocator(a Allocator) Option {
	return func(r *Registry) {
		if a != nil {
			r.alloc = a
		}
	}
}

// WithLogger 设置协议错误的诊断输出。
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry 创建一个空表，无需显式销毁。
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries: map[*byte]*entry{},
		alloc:   HeapAllocator{},
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// key 以底层数组首地址作为缓冲区身份；空缓冲区没有身份。
func key(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return unsafe.SliceData(b)
}

// Alloc 通过分配器申请 n 字节。
func (r *Registry) Alloc(n int) ([]byte, error) {
	b, err := r.alloc.Alloc(n)
	if err != nil {
		if errors.Is(err, ErrAllocation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	if len(b) != n {
		return nil, fmt.Errorf("%w: 期望 %d 字节，得到 %d", ErrAllocation, n, len(b))
	}
	return b, nil
}

// Publish 以引用计数 1 登记一个新产出的缓冲区。
func (r *Registry) Publish(b []byte) {
	k := key(b)
	if k == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[k]; ok {
		r.logger.Warn("重复发布缓冲区，保持原引用计数", "addr", fmt.Sprintf("%p", k), "len", len(b), "refs", e.refs)
		return
	}
	r.entries[k] = &entry{length: len(b), refs: 1}
}

// Retain 增加引用计数；未登记的外来缓冲区按计数 1 登记。
func (r *Registry) Retain(b []byte) {
	k := key(b)
	if k == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[k]; ok {
		e.refs++
		return
	}
	r.logger.Debug("登记外来缓冲区", "addr", fmt.Sprintf("%p", k), "len", len(b))
	r.entries[k] = &entry{length: len(b), refs: 1}
}

// Release 减少引用计数，归零时释放并移除条目。
// 未登记的缓冲区直接释放并返回 ErrProtocolViolation，进程继续运行。
func (r *Registry) Release(b []byte) error {
	k := key(b)
	if k == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[k]
	if !ok {
		r.logger.Warn("释放未登记的缓冲区，直接释放", "addr", fmt.Sprintf("%p", k), "len", len(b))
		r.alloc.Free(b)
		return fmt.Errorf("%w: 释放未登记的缓冲区 %p", ErrProtocolViolation, k)
	}
	e.refs--
	if e.refs <= 0 {
		delete(r.entries, k)
		r.alloc.Free(b)
	}
	return nil
}

// Refs 返回当前引用计数，未登记时为 0。
func (r *Registry) Refs(b []byte) int {
	k := key(b)
	if k == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[k]; ok {
		return e.refs
	}
	return 0
}

// Outstanding 返回尚未释放的缓冲区数量。
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ReportLeaks 把仍然登记的条目逐个写入日志并返回数量。
// 只在调用方需要时使用（例如进程退出前），不会自动触发。
func (r *Registry) ReportLeaks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, e := range r.entries {
		r.logger.Warn("缓冲区未释放", "addr", fmt.Sprintf("%p", k), "len", e.length, "refs", e.refs)
	}
	return len(r.entries)
}
