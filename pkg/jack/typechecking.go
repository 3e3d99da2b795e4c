package jack

import "fmt"

// TypeChecker runs a structural check of a Program before lowering begins: it
// catches the cheap mistakes (an empty or nil program, a class with no name).
// It does no expression-level type inference, and it does not check that the
// classes referenced by calls or declarations are present in the Program.
type TypeChecker struct {
	program Program
}

func NewTypeChecker(program Program) TypeChecker {
	return TypeChecker{program: program}
}

// Check fails if the program is empty or if any of its classes has an empty
// name, and succeeds otherwise. Subroutines and expressions are not inspected.
func (tc *TypeChecker) Check() (bool, error) {
	if len(tc.program) == 0 {
		return false, fmt.Errorf("the given 'program' is empty or nil")
	}

	for name, class := range tc.program {
		if class.Name == "" {
			return false, fmt.Errorf("class registered under '%s' has no name", name)
		}
	}

	return true, nil
}
