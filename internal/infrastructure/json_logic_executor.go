package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/diegoholiveira/jsonlogic/v3"
	"github.com/pkg/errors"

	"github.com/Victor-armando18/service-pricing/internal/interfaces"
)

type JsonLogicExecutor struct {
	customOps map[string]func(args ...interface{}) interface{}
}

// NewJsonLogicExecutor já regista os operadores inteiros usados pelos rule packs.
func NewJsonLogicExecutor() *JsonLogicExecutor {
	j := &JsonLogicExecutor{
		customOps: make(map[string]func(args ...interface{}) interface{}),
	}
	j.RegisterCustomOperator("round", CustomRound)
	j.RegisterCustomOperator("percentOf", CustomPercentOf)
	j.RegisterCustomOperator("clamp", CustomClamp)
	return j
}

func (j *JsonLogicExecutor) RegisterCustomOperator(name string, logic func(args ...interface{}) interface{}) {
	j.customOps[name] = logic
}

func (j *JsonLogicExecutor) Execute(ctx context.Context, ruleData map[string]interface{}, contextVars map[string]interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Operadores customizados
	for opName, fn := range j.customOps {
		if args, ok := ruleData[opName]; ok {
			return j.handleManualEval(ctx, args, contextVars, fn)
		}
	}

	// 2. Execução standard JsonLogic
	ruleJSON, err := json.Marshal(ruleData)
	if err != nil {
		return nil, errors.Wrap(interfaces.ErrRuleExecutionFailed, err.Error())
	}
	dataJSON, err := json.Marshal(contextVars)
	if err != nil {
		return nil, errors.Wrap(interfaces.ErrRuleExecutionFailed, err.Error())
	}

	var resultBuffer bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &resultBuffer); err != nil {
		return nil, errors.Wrap(interfaces.ErrRuleExecutionFailed, err.Error())
	}

	resultStr := strings.TrimSpace(resultBuffer.String())
	if resultStr == "" || resultStr == "null" {
		return nil, nil
	}

	var res interface{}
	decoder := json.NewDecoder(strings.NewReader(resultStr))
	decoder.UseNumber()
	if err := decoder.Decode(&res); err != nil {
		return nil, errors.Wrap(interfaces.ErrRuleExecutionFailed, err.Error())
	}
	return finalizeValue(res), nil
}

func (j *JsonLogicExecutor) handleManualEval(ctx context.Context, args interface{}, data map[string]interface{}, fn func(args ...interface{}) interface{}) (interface{}, error) {
	list, ok := args.([]interface{})
	if !ok {
		list = []interface{}{args}
	}

	params := make([]interface{}, 0, len(list))
	for _, item := range list {
		if subRule, isRule := item.(map[string]interface{}); isRule {
			if _, isVar := subRule["var"]; !isVar {
				res, err := j.Execute(ctx, subRule, data)
				if err != nil {
					return nil, err
				}
				params = append(params, res)
				continue
			}
		}
		params = append(params, resolveVar(item, data))
	}
	return fn(params...), nil
}

// resolveVar resolve caminhos com pontos ("cart.subtotal", "cart.lines.0.quantity").
func resolveVar(arg interface{}, data map[string]interface{}) interface{} {
	m, ok := arg.(map[string]interface{})
	if !ok {
		return arg
	}
	path, ok := m["var"].(string)
	if !ok {
		return arg
	}

	var current interface{} = data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			current = node[part]
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			current = node[i]
		default:
			return nil
		}
		if current == nil {
			return nil
		}
	}
	return finalizeValue(current)
}

// finalizeValue keeps integral numbers integral so amounts stay in cents.
func finalizeValue(val interface{}) interface{} {
	n, ok := val.(json.Number)
	if !ok {
		return val
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return val
}

// CustomRound arredonda para o cêntimo inteiro mais próximo.
func CustomRound(args ...interface{}) interface{} {
	if len(args) == 0 {
		return int64(0)
	}
	v, ok := ToFloat(args[0])
	if !ok {
		return args[0]
	}
	return int64(math.Round(v))
}

// CustomPercentOf returns floor(value * pct / 100) in integer cents.
func CustomPercentOf(args ...interface{}) interface{} {
	if len(args) < 2 {
		return int64(0)
	}
	val, _ := ToInt64(args[0])
	pct, _ := ToInt64(args[1])
	p := val * pct
	q := p / 100
	if p%100 != 0 && p < 0 {
		q--
	}
	return q
}

// CustomClamp limits a value to [min, max].
func CustomClamp(args ...interface{}) interface{} {
	if len(args) < 3 {
		return int64(0)
	}
	val, _ := ToInt64(args[0])
	lo, _ := ToInt64(args[1])
	hi, _ := ToInt64(args[2])
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func ToFloat(i interface{}) (float64, bool) {
	switch v := i.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// ToInt64 converts a rule result to integer cents, rounding fractional values.
func ToInt64(i interface{}) (int64, bool) {
	switch v := i.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(math.Round(v)), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		return int64(math.Round(f)), err == nil
	}
	return 0, false
}
