package service

import (
	"math"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/deppfellow/users-api/internal/model"
)

// CleanItem turns a stored item into its plain JSON record.
//
// S becomes a string and N a float64. A number that does not parse becomes
// nil (JSON null), as do NaN and infinities. Any other tag is passed through
// in its tagged form, e.g. {"BOOL": true}. A nil item yields a nil record.
func CleanItem(item model.Item) model.Record {
	if item == nil {
		return nil
	}

	record := make(model.Record, len(item))
	for name, av := range item {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			record[name] = v.Value
		case *types.AttributeValueMemberN:
			f, err := strconv.ParseFloat(v.Value, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				record[name] = nil
				continue
			}
			record[name] = f
		default:
			record[name] = taggedValue(av)
		}
	}
	return record
}

// taggedValue renders an attribute as a single-key object named after its
// type tag. List and map members are rendered the same way, S and N included.
// B and BS bytes encode as base64 strings.
func taggedValue(av types.AttributeValue) any {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return map[string]any{"S": v.Value}
	case *types.AttributeValueMemberN:
		return map[string]any{"N": v.Value}
	case *types.AttributeValueMemberB:
		return map[string]any{"B": v.Value}
	case *types.AttributeValueMemberBOOL:
		return map[string]any{"BOOL": v.Value}
	case *types.AttributeValueMemberNULL:
		return map[string]any{"NULL": v.Value}
	case *types.AttributeValueMemberSS:
		return map[string]any{"SS": v.Value}
	case *types.AttributeValueMemberNS:
		return map[string]any{"NS": v.Value}
	case *types.AttributeValueMemberBS:
		return map[string]any{"BS": v.Value}
	case *types.AttributeValueMemberL:
		list := make([]any, 0, len(v.Value))
		for _, member := range v.Value {
			list = append(list, taggedValue(member))
		}
		return map[string]any{"L": list}
	case *types.AttributeValueMemberM:
		members := make(map[string]any, len(v.Value))
		for key, member := range v.Value {
			members[key] = taggedValue(member)
		}
		return map[string]any{"M": members}
	default:
		// *types.UnknownUnionMember: a tag this SDK version does not model.
		return nil
	}
}

// CleanItems converts a slice of items. The result is never nil.
func CleanItems(items []model.Item) []model.Record {
	records := make([]model.Record, 0, len(items))
	for _, item := range items {
		records = append(records, CleanItem(item))
	}
	return records
}
