package obs

// DecodeOutput decodes MessagePack bytes into an Output.
func DecodeOutput(data []byte) (*Output, error) {
	o, err := OutputSchema.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// EncodeOutput encodes an Output to MessagePack bytes.
func EncodeOutput(o *Output) ([]byte, error) {
	return OutputSchema.Marshal(o)
}

// DecodeScene decodes MessagePack bytes into a Scene.
func DecodeScene(data []byte) (*Scene, error) {
	s, err := SceneSchema.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeScene encodes a Scene to MessagePack bytes.
func EncodeScene(s *Scene) ([]byte, error) {
	return SceneSchema.Marshal(s)
}

// DecodeInputVolumeMeter decodes MessagePack bytes into an InputVolumeMeter.
func DecodeInputVolumeMeter(data []byte) (*InputVolumeMeter, error) {
	m, err := InputVolumeMeterSchema.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// EncodeInputVolumeMeter encodes an InputVolumeMeter to MessagePack bytes.
func EncodeInputVolumeMeter(m *InputVolumeMeter) ([]byte, error) {
	return InputVolumeMeterSchema.Marshal(m)
}

// DecodeInput decodes MessagePack bytes into an Input.
func DecodeInput(data []byte) (*Input, error) {
	i, err := InputSchema.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// EncodeInput encodes an Input to MessagePack bytes.
func EncodeInput(i *Input) ([]byte, error) {
	return InputSchema.Marshal(i)
}

// DecodeSceneItem decodes MessagePack bytes into a SceneItem.
func DecodeSceneItem(data []byte) (*SceneItem, error) {
	s, err := SceneItemSchema.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeSceneItem encodes a SceneItem to MessagePack bytes.
func EncodeSceneItem(s *SceneItem) ([]byte, error) {
	return SceneItemSchema.Marshal(s)
}

// DecodeSourceFilter decodes MessagePack bytes into a SourceFilter.
func DecodeSourceFilter(data []byte) (*SourceFilter, error) {
	f, err := SourceFilterSchema.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// EncodeSourceFilter encodes a SourceFilter to MessagePack bytes.
func EncodeSourceFilter(f *SourceFilter) ([]byte, error) {
	return SourceFilterSchema.Marshal(f)
}

// DecodeAvailableTransition decodes MessagePack bytes into an AvailableTransition.
func DecodeAvailableTransition(data []byte) (*AvailableTransition, error) {
	t, err := AvailableTransitionSchema.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EncodeAvailableTransition encodes an AvailableTransition to MessagePack bytes.
func EncodeAvailableTransition(t *AvailableTransition) ([]byte, error) {
	return AvailableTransitionSchema.Marshal(t)
}
