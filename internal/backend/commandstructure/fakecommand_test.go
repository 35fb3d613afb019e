package commandstructure

// fakeCommand records its calls and delegates to executeFunc.
type fakeCommand struct {
	name        string
	calls       int
	executeFunc func([]byte) ([]byte, error)
}

func (f *fakeCommand) Name() string {
	return f.name
}

func (f *fakeCommand) Execute(imageData []byte) ([]byte, error) {
	f.calls++
	if f.executeFunc != nil {
		return f.executeFunc(imageData)
	}
	return imageData, nil
}

func newAppendingCommand(name, suffix string) *fakeCommand {
	return &fakeCommand{
		name: name,
		executeFunc: func(data []byte) ([]byte, error) {
			return append(append([]byte{}, data...), suffix...), nil
		},
	}
}

func newFailingCommand(name string, err error) *fakeCommand {
	return &fakeCommand{
		name: name,
		executeFunc: func([]byte) ([]byte, error) {
			return nil, err
		},
	}
}
