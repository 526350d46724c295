package service

// SetHashComparer replaces the bcrypt comparison used by Login.
func (s *AuthService) SetHashComparer(compare func(hash, password []byte) error) {
	s.compareHash = compare
}
