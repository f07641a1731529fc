// Package demo ships the reference skill bundled with the SDK. It exercises
// every part of the invocation contract: config-dependent handlers, optional
// parameters with defaults, explicit Result envelopes, raw map returns, and
// tool-level failures.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/petal-labs/petalskill"
)

const (
	// SkillName is the registered name of the demo skill.
	SkillName = "demo"

	// Version is the demo skill version reported by status.
	Version = "1.0.0"

	defaultGreetingPrefix = "Hello"
	defaultMaxItems       = 100
)

func init() {
	def, err := Definition()
	if err != nil {
		// A defective built-in declaration is a programming error.
		panic(err)
	}
	petalskill.Global().Register(def)
}

// Definition builds the demo skill declaration.
func Definition() (*petalskill.Definition, error) {
	b := petalskill.NewSkill(petalskill.Metadata{
		Name:        SkillName,
		Description: "Example skill demonstrating SDK features",
		Version:     Version,
		Author:      "Petal Labs",
		Tags:        []string{"example", "demo"},
	})

	b.AddConfigOption("greeting_prefix", "Prefix for greeting messages", defaultGreetingPrefix)
	b.AddConfigOption("max_items", "Maximum items to process", defaultMaxItems)

	b.AddTool("greet", "Greet someone with a personalized message", greet).
		AddParameter("name", "The name of the person to greet", petalskill.TypeString, petalskill.WithDefault("World")).
		AddParameter("formal", "Use formal greeting style", petalskill.TypeBoolean, petalskill.WithDefault(false))

	b.AddTool("echo", "Echo back a message with optional transformation", echo).
		AddParameter("message", "The message to echo", petalskill.TypeString).
		AddParameter("uppercase", "Convert message to uppercase", petalskill.TypeBoolean, petalskill.WithDefault(false)).
		AddParameter("reverse", "Reverse the message", petalskill.TypeBoolean, petalskill.WithDefault(false))

	b.AddTool("calculate", "Perform basic arithmetic operations", calculate).
		AddParameter("a", "First number", petalskill.TypeNumber).
		AddParameter("b", "Second number", petalskill.TypeNumber).
		AddParameter("operation", "Operation to perform: add, subtract, multiply, divide", petalskill.TypeString, petalskill.WithDefault("add"))

	b.AddTool("process_list", "Process a list of items and return statistics", processList).
		AddParameter("items", "JSON array of numbers to process", petalskill.TypeString)

	b.AddTool("status", "Get current skill configuration and status", status)

	return b.Build()
}

// New constructs a demo skill instance with host-supplied config overrides.
func New(overrides map[string]any) (*petalskill.Instance, error) {
	def, err := Definition()
	if err != nil {
		return nil, err
	}
	return petalskill.New(def, overrides)
}

func greet(ctx context.Context, args petalskill.Args, config petalskill.Config) (any, error) {
	name := args.String("name")
	if args.Bool("formal") {
		return fmt.Sprintf("Good day, %s. How may I assist you?", name), nil
	}
	return fmt.Sprintf("%s, %s!", config.String("greeting_prefix"), name), nil
}

func echo(ctx context.Context, args petalskill.Args, config petalskill.Config) (any, error) {
	message := args.String("message")
	if args.Bool("uppercase") {
		message = strings.ToUpper(message)
	}
	if args.Bool("reverse") {
		message = reverseString(message)
	}
	return message, nil
}

var operations = []string{"add", "subtract", "multiply", "divide"}

func calculate(ctx context.Context, args petalskill.Args, config petalskill.Config) (any, error) {
	a := args.Number("a")
	b := args.Number("b")
	operation := args.String("operation")

	var result float64
	switch operation {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			return petalskill.Error("Division by zero"), nil
		}
		result = a / b
	default:
		return petalskill.Errorf("Unknown operation: %s. Valid: %s", operation, strings.Join(operations, ", ")), nil
	}

	message := fmt.Sprintf("%s %s %s = %s",
		formatNumber(a), operation, formatNumber(b), formatNumber(result))
	return petalskill.Ok(message, map[string]any{
		"result":    result,
		"operation": operation,
		"a":         a,
		"b":         b,
	}), nil
}

func processList(ctx context.Context, args petalskill.Args, config petalskill.Config) (any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(args.String("items")), &decoded); err != nil {
		return petalskill.Errorf("Invalid JSON: %v", err), nil
	}

	list, ok := decoded.([]any)
	if !ok {
		return petalskill.Error("Input must be a JSON array"), nil
	}

	maxItems := int(config.Number("max_items"))
	if len(list) > maxItems {
		return petalskill.Errorf("Too many items (%d). Maximum: %d", len(list), maxItems), nil
	}

	numbers := make([]float64, 0, len(list))
	for _, item := range list {
		if n, isNumber := item.(float64); isNumber {
			numbers = append(numbers, n)
		}
	}
	if len(numbers) == 0 {
		return petalskill.Error("No valid numbers in input"), nil
	}

	sum := 0.0
	minValue := numbers[0]
	maxValue := numbers[0]
	for _, n := range numbers {
		sum += n
		if n < minValue {
			minValue = n
		}
		if n > maxValue {
			maxValue = n
		}
	}

	return petalskill.Ok(fmt.Sprintf("Processed %d items", len(numbers)), map[string]any{
		"count":   len(numbers),
		"sum":     sum,
		"min":     minValue,
		"max":     maxValue,
		"average": sum / float64(len(numbers)),
	}), nil
}

func status(ctx context.Context, args petalskill.Args, config petalskill.Config) (any, error) {
	return map[string]any{
		"skill_name": SkillName,
		"version":    Version,
		"config": map[string]any{
			"greeting_prefix": config.String("greeting_prefix"),
			"max_items":       int(config.Number("max_items")),
		},
		"tools_available": []any{"greet", "echo", "calculate", "process_list", "status"},
	}, nil
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
