package list

var _ SinglyNodeElement = (*singlyNodeElement)(nil)

type singlyNodeElement struct {
	next  *singlyNodeElement
	value int
}

func newSinglyNodeElement(v int) *singlyNodeElement {
	return &singlyNodeElement{
		value: v,
	}
}

func (e *singlyNodeElement) HasNext() bool {
	if e == nil {
		return false
	}
	return e.next != nil
}

func (e *singlyNodeElement) GetNext() SinglyNodeElement {
	if e == nil || e.next == nil {
		return nil // Avoid the typed nil interface.
	}
	return e.next
}

func (e *singlyNodeElement) GetValue() int {
	if e == nil {
		return 0
	}
	return e.value
}

func (e *singlyNodeElement) SetValue(v int) {
	if e == nil {
		return
	}
	e.value = v
}

func asSinglyNodeElement(e *singlyNodeElement) SinglyNodeElement {
	if e == nil {
		return nil
	}
	return e
}
