package lltrace

import "fmt"

// Validate checks a decoded event stream against the declaration-before-
// use invariants from §3/§8: every PathID, FunctionID and VariableID
// referenced anywhere, and every non-zero TypeID referenced by a
// ValueRecord, must have been introduced by a prior declaration event at
// the matching ordinal position. TypeIDs inside a Type event's
// TypeSpecificInfo (struct fields, pointer targets) are not checked. It does not
// repair anything; that is the replayer's job per §7.
func Validate(events []LowLevelEvent) error {
	var paths, functions, variables, types uint32

	checkPath := func(id PathID, at int) error {
		if uint32(id) >= paths {
			return fmt.Errorf("event %d: PathID %d referenced before declaration", at, id)
		}
		return nil
	}
	checkFunction := func(id FunctionID, at int) error {
		if uint32(id) >= functions {
			return fmt.Errorf("event %d: FunctionID %d referenced before declaration", at, id)
		}
		return nil
	}
	checkVariable := func(id VariableID, at int) error {
		if uint32(id) >= variables {
			return fmt.Errorf("event %d: VariableID %d referenced before declaration", at, id)
		}
		return nil
	}
	checkType := func(id TypeID, at int) error {
		if id == NoneTypeID {
			return nil
		}
		if uint32(id) >= types {
			return fmt.Errorf("event %d: TypeID %d referenced before declaration", at, id)
		}
		return nil
	}
	var checkValue func(v ValueRecord, at int) error
	checkValue = func(v ValueRecord, at int) error {
		if v.Kind != KindCell {
			if err := checkType(v.TypeID, at); err != nil {
				return err
			}
		}
		switch v.Kind {
		case KindSequence, KindTuple:
			for _, e := range v.Elements {
				if err := checkValue(e, at); err != nil {
					return err
				}
			}
		case KindStruct:
			for _, e := range v.FieldValues {
				if err := checkValue(e, at); err != nil {
					return err
				}
			}
		case KindVariant:
			if v.Contents != nil {
				if err := checkValue(*v.Contents, at); err != nil {
					return err
				}
			}
		case KindReference:
			if v.Dereferenced != nil {
				if err := checkValue(*v.Dereferenced, at); err != nil {
					return err
				}
			}
		}
		return nil
	}
	checkFullValue := func(v FullValueRecord, at int) error {
		if err := checkVariable(v.VariableID, at); err != nil {
			return err
		}
		return checkValue(v.Value, at)
	}

	for i, e := range events {
		switch e.Kind {
		case EventPath:
			paths++
		case EventVariableName:
			variables++
		case EventType:
			types++
		case EventFunction:
			if err := checkPath(e.Function.PathID, i); err != nil {
				return err
			}
			functions++
		case EventValue:
			if err := checkFullValue(e.Value, i); err != nil {
				return err
			}
		case EventStep:
			if err := checkPath(e.Step.PathID, i); err != nil {
				return err
			}
		case EventCall:
			if err := checkFunction(e.Call.FunctionID, i); err != nil {
				return err
			}
			for _, a := range e.Call.Args {
				if err := checkFullValue(a, i); err != nil {
					return err
				}
			}
		case EventReturn:
			if err := checkValue(e.Return.ReturnValue, i); err != nil {
				return err
			}
		case EventBindVariable:
			if err := checkVariable(e.BindVariable.VariableID, i); err != nil {
				return err
			}
		case EventVariableCell:
			if err := checkVariable(e.VariableCell.VariableID, i); err != nil {
				return err
			}
		case EventAssignment:
			if err := checkVariable(e.Assignment.To, i); err != nil {
				return err
			}
			switch e.Assignment.From.Kind {
			case RValueSimple:
				if err := checkVariable(e.Assignment.From.Simple, i); err != nil {
					return err
				}
			case RValueCompound:
				for _, id := range e.Assignment.From.Compound {
					if err := checkVariable(id, i); err != nil {
						return err
					}
				}
			}
		case EventDropVariables:
			for _, id := range e.DropVariables {
				if err := checkVariable(id, i); err != nil {
					return err
				}
			}
		case EventDropVariable:
			if err := checkVariable(e.DropVariable, i); err != nil {
				return err
			}
		case EventCompoundValue:
			if err := checkValue(e.CompoundValue.Value, i); err != nil {
				return err
			}
		case EventCellValue:
			if err := checkValue(e.CellValue.Value, i); err != nil {
				return err
			}
		case EventAssignCell:
			if err := checkValue(e.AssignCell.NewValue, i); err != nil {
				return err
			}
		}
	}
	return nil
}
