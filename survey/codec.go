package survey

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Marshal encodes a record as a protobuf Struct message.
func Marshal(r Record) ([]byte, error) {
	msg := &structpb.Struct{Fields: map[string]*structpb.Value{
		"year":                    structpb.NewNumberValue(float64(r.Year)),
		"university":              structpb.NewStringValue(r.University),
		"school":                  structpb.NewStringValue(r.School),
		"degree":                  structpb.NewStringValue(r.Degree),
		"employment_rate_overall": numberValue(r.EmploymentRateOverall),
		"employment_rate_ft_perm": numberValue(r.EmploymentRateFTPerm),
		"basic_monthly_mean":      numberValue(r.BasicMonthlyMean),
		"gross_monthly_median":    numberValue(r.GrossMonthlyMedian),
	}}
	bytes, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode survey record: %w", err)
	}
	return bytes, nil
}

// Unmarshal decodes a message produced by Marshal and validates the result.
func Unmarshal(bytes []byte) (Record, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(bytes, &msg); err != nil {
		return Record{}, fmt.Errorf("failed to decode survey record: %w", err)
	}
	f := msg.GetFields()
	r := Record{
		Year:                  int(f["year"].GetNumberValue()),
		University:            f["university"].GetStringValue(),
		School:                f["school"].GetStringValue(),
		Degree:                f["degree"].GetStringValue(),
		EmploymentRateOverall: number(f["employment_rate_overall"]),
		EmploymentRateFTPerm:  number(f["employment_rate_ft_perm"]),
		BasicMonthlyMean:      number(f["basic_monthly_mean"]),
		GrossMonthlyMedian:    number(f["gross_monthly_median"]),
	}
	return r, r.Validate()
}

func numberValue(v *float64) *structpb.Value {
	if v == nil {
		return structpb.NewNullValue()
	}
	return structpb.NewNumberValue(*v)
}

func number(v *structpb.Value) *float64 {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil
	}
	x := n.NumberValue
	return &x
}
