package convert

import (
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// StructAssign copies same-named fields from src into dst
// StructAssign 把 src 与 dst 的相同字段名的值复制到 dst 中
func StructAssign(src any, dst any) any {
	_ = copier.Copy(dst, src)
	return dst
}

// StructToMap converts a struct into a map through its json tags
// StructToMap 通过 json 标签将结构体转换为 map
func StructToMap(param any, data map[string]interface{}) error {
	str, err := sonic.Marshal(param)
	if err != nil {
		return errors.Wrap(err, "convert.StructToMap marshal")
	}
	if err := sonic.Unmarshal(str, &data); err != nil {
		return errors.Wrap(err, "convert.StructToMap unmarshal")
	}
	return nil
}

// StructToModelMap builds a column -> value map from gorm column tags, skipping skipField.
// StructToModelMap 根据 gorm column 标签生成更新 map，跳过 skipField 字段
func StructToModelMap(param any, data map[string]any, skipField string) error {
	val := reflect.ValueOf(param)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return errors.New("not struct")
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		if skipField != "" && typ.Field(i).Name == skipField {
			continue
		}

		tags := splitGormTag(typ.Field(i).Tag.Get("gorm"))
		if tags["column"] != "" {
			data[tags["column"]] = val.Field(i).Interface()
		}
	}

	return nil
}

// 分割 GORM 标签
func splitGormTag(tag string) map[string]string {
	tags := strings.Split(tag, ";")

	parts := make(map[string]string, 0)
	for _, part := range tags {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) == 2 {
			parts[kv[0]] = kv[1]
		}
	}

	return parts
}
