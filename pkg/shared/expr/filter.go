/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package expr evaluates row filter expressions such as `ID != "1649"` or
// `int(ID) < 1000 && Time > 5.0` against input events.
//
// The environment of an expression is:
//
//	Time    float64    event time
//	ID      string     source identifier
//	Signal  []float64  signal fields, Signal[0] is Signal_1_of_ID, NaN when missing
//	int, string        conversion helpers
//	sprig              sprig generic functions, e.g. sprig.hasPrefix("0x", ID)
package expr

import (
	"fmt"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
)

// Filter is a compiled boolean row expression.
type Filter struct {
	expression string
	program    *vm.Program
}

// CompileFilter compiles expression once so it can be run against every row. The result type
// is checked by Keep, helper calls are only typed at run time.
func CompileFilter(expression string) (*Filter, error) {
	program, err := expr.Compile(expression, expr.Env(rowEnv(0, "", nil)))
	if err != nil {
		return nil, fmt.Errorf("unable to compile expression '%s': %s", expression, err)
	}
	return &Filter{expression: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expression
}

// Keep reports whether the row satisfies the expression.
func (f *Filter) Keep(time float64, id string, fields []float64) (bool, error) {
	result, err := expr.Run(f.program, rowEnv(time, id, fields))
	if err != nil {
		return false, fmt.Errorf("unable to evaluate expression '%s': %s", f.expression, err)
	}
	resultBool, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("unable to cast expression result '%v' to bool", result)
	}
	return resultBool, nil
}

func rowEnv(time float64, id string, fields []float64) map[string]interface{} {
	if fields == nil {
		fields = []float64{}
	}
	env := getFuncMap()
	env["Time"] = time
	env["ID"] = id
	env["Signal"] = fields
	return env
}
