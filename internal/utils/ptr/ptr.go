package ptr

func ToString(s string) *string { return &s }

func ToBool(b bool) *bool { return &b }

func ToInt(i int) *int { return &i }

func ToUint(u uint) *uint { return &u }

func ToFloat32(f float32) *float32 { return &f }
