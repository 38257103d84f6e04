package repository

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// MemoryProcessor 纯内存的 ORMProcessor 实现。
// 供测试和单进程演示场景使用，语义对齐 XormProcessor 的常用子集：
// 结构体条件匹配、自增主键、created/updated 时间戳。
// 不支持原生 SQL，事务只保证串行执行，不支持回滚。
type MemoryProcessor struct {
	mu     sync.Mutex
	tables map[reflect.Type][]reflect.Value
	nextID map[reflect.Type]uint64
}

// NewMemoryProcessor 创建空的内存处理器
func NewMemoryProcessor() *MemoryProcessor {
	return &MemoryProcessor{
		tables: make(map[reflect.Type][]reflect.Value),
		nextID: make(map[reflect.Type]uint64),
	}
}

func structType(model any) (reflect.Type, reflect.Value, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, reflect.Value{}, errors.Errorf("model must be a struct, got %T", model)
	}
	return v.Type(), v, nil
}

// columnName 与 XormProcessor 一致的列名解析：优先取引号内的名字
func columnName(tag string) string {
	if tag == "" {
		return ""
	}
	if i := strings.IndexAny(tag, "'`"); i >= 0 {
		rest := tag[i+1:]
		if j := strings.IndexAny(rest, "'`"); j >= 0 {
			return rest[:j]
		}
	}
	parts := strings.FieldsFunc(tag, func(r rune) bool {
		return r == ' ' || r == '`' || r == '\''
	})
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
}

func fieldIndexByColumn(t reflect.Type, column string) int {
	for i := 0; i < t.NumField(); i++ {
		if columnName(t.Field(i).Tag.Get("xorm")) == column {
			return i
		}
	}
	return -1
}

func pkIndex(t reflect.Type) int {
	for i := 0; i < t.NumField(); i++ {
		if strings.Contains(t.Field(i).Tag.Get("xorm"), "pk") {
			return i
		}
	}
	return -1
}

func sameValue(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func matchCondition(row reflect.Value, cond Condition) bool {
	idx := fieldIndexByColumn(row.Type(), cond.Field)
	if idx < 0 {
		return false
	}
	got := row.Field(idx).Interface()

	switch cond.Op {
	case OpEq, "":
		return sameValue(got, cond.Value)
	case OpNe:
		return !sameValue(got, cond.Value)
	case OpIn:
		vals := reflect.ValueOf(cond.Value)
		if vals.Kind() != reflect.Slice {
			return sameValue(got, cond.Value)
		}
		for i := 0; i < vals.Len(); i++ {
			if sameValue(got, vals.Index(i).Interface()) {
				return true
			}
		}
		return false
	case OpLike:
		s, ok := got.(string)
		sub, ok2 := cond.Value.(string)
		return ok && ok2 && strings.Contains(s, sub)
	case OpStartsWith:
		s, ok := got.(string)
		prefix, ok2 := cond.Value.(string)
		return ok && ok2 && strings.HasPrefix(s, prefix)
	case OpLt:
		return compareValues(got, cond.Value) < 0
	case OpLe:
		return compareValues(got, cond.Value) <= 0
	case OpGt:
		return compareValues(got, cond.Value) > 0
	case OpGe:
		return compareValues(got, cond.Value) >= 0
	}
	return false
}

func compareValues(a, b any) int {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

func matchAll(row reflect.Value, filters []Condition) bool {
	for _, f := range filters {
		if !matchCondition(row, f) {
			return false
		}
	}
	return true
}

// applyTimestamps 填充 created/updated 标记的时间字段
func applyTimestamps(row reflect.Value, isCreate bool) {
	now := time.Now()
	t := row.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("xorm")
		f := row.Field(i)
		if f.Type() != reflect.TypeOf(time.Time{}) || !f.CanSet() {
			continue
		}
		if strings.Contains(tag, "created") && isCreate {
			f.Set(reflect.ValueOf(now))
		}
		if strings.Contains(tag, "updated") {
			f.Set(reflect.ValueOf(now))
		}
	}
}

// Create 插入记录并回填自增主键
func (p *MemoryProcessor) Create(ctx context.Context, model any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, v, err := structType(model)
	if err != nil {
		return err
	}

	row := reflect.New(t).Elem()
	row.Set(v)

	if idx := pkIndex(t); idx >= 0 && row.Field(idx).CanUint() && row.Field(idx).Uint() == 0 {
		p.nextID[t]++
		row.Field(idx).SetUint(p.nextID[t])
	}
	applyTimestamps(row, true)

	p.tables[t] = append(p.tables[t], row)

	// 回填生成的主键和时间戳
	if orig := reflect.ValueOf(model); orig.Kind() == reflect.Ptr {
		orig.Elem().Set(row)
	}
	return nil
}

// Update 按主键定位记录，覆盖非零值字段
func (p *MemoryProcessor) Update(ctx context.Context, model any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, v, err := structType(model)
	if err != nil {
		return err
	}
	idx := pkIndex(t)
	if idx < 0 {
		return errors.New("model must have a valid primary key field")
	}
	id := v.Field(idx).Interface()

	for _, row := range p.tables[t] {
		if !sameValue(row.Field(idx).Interface(), id) {
			continue
		}
		mergeNonZero(row, v)
		applyTimestamps(row, false)
		return nil
	}
	return nil
}

func mergeNonZero(dst, src reflect.Value) {
	for i := 0; i < src.NumField(); i++ {
		f := src.Field(i)
		if f.IsZero() {
			continue
		}
		dst.Field(i).Set(f)
	}
}

// UpdateByOption 对所有匹配过滤条件的记录覆盖非零值字段
func (p *MemoryProcessor) UpdateByOption(ctx context.Context, model any, opts *QueryOption) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, v, err := structType(model)
	if err != nil {
		return err
	}
	for _, row := range p.tables[t] {
		if matchAll(row, opts.Filters) {
			mergeNonZero(row, v)
			applyTimestamps(row, false)
		}
	}
	return nil
}

// Delete 以模型的非零字段为条件删除记录，与 xorm 的 session.Delete 对齐
func (p *MemoryProcessor) Delete(ctx context.Context, model any) error {
	t, _, err := structType(model)
	if err != nil {
		return err
	}
	return p.deleteWhere(t, p.BuildFiltersFromModel(model))
}

// DeleteByOption 按过滤条件删除记录
func (p *MemoryProcessor) DeleteByOption(ctx context.Context, model any, opts *QueryOption) error {
	t, _, err := structType(model)
	if err != nil {
		return err
	}
	return p.deleteWhere(t, opts.Filters)
}

func (p *MemoryProcessor) deleteWhere(t reflect.Type, filters []Condition) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.tables[t][:0]
	for _, row := range p.tables[t] {
		if !matchAll(row, filters) {
			kept = append(kept, row)
		}
	}
	p.tables[t] = kept
	return nil
}

// Query 按查询选项过滤、排序、分页
func (p *MemoryProcessor) Query(ctx context.Context, model any, opts *QueryOption) (*QueryResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, _, err := structType(model)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &QueryOption{}
	}

	var matched []reflect.Value
	for _, row := range p.tables[t] {
		if matchAll(row, opts.Filters) {
			matched = append(matched, row)
		}
	}

	if opts.OrderBy != "" {
		sortRows(matched, opts.OrderBy)
	}

	total := int64(len(matched))
	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[opts.Offset:]
		}
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	slice := reflect.MakeSlice(reflect.SliceOf(t), 0, len(matched))
	for _, row := range matched {
		cp := reflect.New(t).Elem()
		cp.Set(row)
		slice = reflect.Append(slice, cp)
	}
	return &QueryResult{Data: slice.Interface(), Total: total}, nil
}

func sortRows(rows []reflect.Value, orderBy string) {
	parts := strings.Fields(orderBy)
	if len(parts) == 0 {
		return
	}
	column := parts[0]
	desc := len(parts) > 1 && strings.EqualFold(parts[1], "desc")

	sort.SliceStable(rows, func(i, j int) bool {
		less := lessByColumn(rows[i], rows[j], column)
		if desc {
			return lessByColumn(rows[j], rows[i], column)
		}
		return less
	})
}

func lessByColumn(a, b reflect.Value, column string) bool {
	idx := fieldIndexByColumn(a.Type(), column)
	if idx < 0 {
		return false
	}
	av, bv := a.Field(idx), b.Field(idx)

	if at, ok := av.Interface().(time.Time); ok {
		bt := bv.Interface().(time.Time)
		return at.Before(bt)
	}
	switch av.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return av.Int() < bv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return av.Uint() < bv.Uint()
	case reflect.String:
		return av.String() < bv.String()
	}
	return false
}

// BatchCreate 批量插入
func (p *MemoryProcessor) BatchCreate(ctx context.Context, models []any) error {
	for _, m := range models {
		if err := p.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// BatchUpdate 批量更新
func (p *MemoryProcessor) BatchUpdate(ctx context.Context, models []any) error {
	for _, m := range models {
		if err := p.Update(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// BatchDelete 批量删除
func (p *MemoryProcessor) BatchDelete(ctx context.Context, models []any) error {
	for _, m := range models {
		if err := p.Delete(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Exec 内存实现不支持原生 SQL
func (p *MemoryProcessor) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return 0, errors.New("memory processor does not support raw SQL")
}

func (p *MemoryProcessor) QueryRow(ctx context.Context, sql string, args ...any) (map[string]any, error) {
	return nil, errors.New("memory processor does not support raw SQL")
}

func (p *MemoryProcessor) QueryRows(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	return nil, errors.New("memory processor does not support raw SQL")
}

// BuildFiltersFromModel 从模型中提取非零字段作为等值查询条件
func (p *MemoryProcessor) BuildFiltersFromModel(model any) []Condition {
	val := reflect.ValueOf(model)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	var filters []Condition
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i)
		value := val.Field(i)

		if value.IsZero() || value.Kind() == reflect.Ptr && value.IsNil() {
			continue
		}
		if value.Kind() == reflect.Struct {
			continue
		}

		dbField := columnName(field.Tag.Get("xorm"))
		if dbField == "" {
			continue
		}
		filters = append(filters, Condition{Field: dbField, Op: OpEq, Value: value.Interface()})
	}
	return filters
}

// Begin 内存实现没有真实事务，原样返回上下文
func (p *MemoryProcessor) Begin(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

func (p *MemoryProcessor) Commit(tx context.Context) error {
	return nil
}

func (p *MemoryProcessor) Rollback(tx context.Context) error {
	return nil
}

// Transaction 串行执行函数体，不提供回滚保证
func (p *MemoryProcessor) Transaction(ctx context.Context, fn TransactionFunc) (any, error) {
	return fn(ctx)
}
