package grpc

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// Request messages are google.protobuf.Struct values with snake_case keys.
// The helpers below read typed fields out of them and answer InvalidArgument
// on malformed input.

func stringField(req *structpb.Struct, key string) string {
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return strings.TrimSpace(k.StringValue)
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(k.NumberValue).String()
	default:
		return ""
	}
}

func uuidField(req *structpb.Struct, key string) (uuid.UUID, error) {
	s := stringField(req, key)
	if s == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return id, nil
}

func boolField(req *structpb.Struct, key string) bool {
	return req.GetFields()[key].GetBoolValue()
}

func dateField(req *structpb.Struct, key string) (domain.Date, error) {
	s := stringField(req, key)
	if s == "" {
		return domain.Date{}, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return d, nil
}

// optionalDateField returns the zero Date when key is absent
func optionalDateField(req *structpb.Struct, key string) (domain.Date, error) {
	if stringField(req, key) == "" {
		return domain.Date{}, nil
	}
	return dateField(req, key)
}

func classField(req *structpb.Struct, key string) (domain.InstrumentClass, error) {
	class, err := domain.ParseInstrumentClass(stringField(req, key))
	if err != nil {
		return "", status.Errorf(codes.InvalidArgument, "invalid %s: %v", key, err)
	}
	return class, nil
}

func optionalClassField(req *structpb.Struct, key string) (*domain.InstrumentClass, error) {
	if stringField(req, key) == "" {
		return nil, nil
	}
	class, err := classField(req, key)
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func periodField(req *structpb.Struct, key string) (domain.Period, error) {
	period, err := domain.ParsePeriod(stringField(req, key))
	if err != nil {
		return "", status.Errorf(codes.InvalidArgument, "invalid %s: %v", key, err)
	}
	return period, nil
}

func decimalField(req *structpb.Struct, key string) (decimal.Decimal, error) {
	s := stringField(req, key)
	if s == "" {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	d, err := domain.ParseAmountStrict(s)
	if errors.Is(err, domain.ErrAmountOutOfRange) {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s: %v", key, err)
	}
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return d, nil
}

func optionalDecimalField(req *structpb.Struct, key string) (*decimal.Decimal, error) {
	if stringField(req, key) == "" {
		return nil, nil
	}
	d, err := decimalField(req, key)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// rangeField reads <prefix>from and <prefix>to; a missing bound is open
func rangeField(req *structpb.Struct, prefix string) (domain.Range, error) {
	from, err := optionalDateField(req, prefix+"from")
	if err != nil {
		return domain.Range{}, err
	}
	to, err := optionalDateField(req, prefix+"to")
	if err != nil {
		return domain.Range{}, err
	}
	return domain.OpenRange(from, to), nil
}

// requiredRangeField is rangeField where both bounds must be present
func requiredRangeField(req *structpb.Struct, prefix string) (domain.Range, error) {
	from, err := dateField(req, prefix+"from")
	if err != nil {
		return domain.Range{}, err
	}
	to, err := dateField(req, prefix+"to")
	if err != nil {
		return domain.Range{}, err
	}
	return domain.NewRange(from, to), nil
}

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

func optionalDecimalValue(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func optionalDateValue(d *domain.Date) interface{} {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

func rangeValue(r domain.Range) map[string]interface{} {
	return map[string]interface{}{
		"from": r.From.String(),
		"to":   r.To.String(),
	}
}
