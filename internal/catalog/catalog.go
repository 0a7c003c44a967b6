// Package catalog holds the static list of purchasable subjects and programs.
package catalog

// Subject is a purchasable exam-prep subject with a price in rubles.
type Subject struct {
	Key   string
	Title string
	Price int
}

// Program is a school program variant a subject can be bought under.
type Program struct {
	Key   string
	Title string
}

var subjects = []Subject{
	{Key: "math_p", Title: "Профильная математика", Price: 499},
	{Key: "rus", Title: "Русский язык", Price: 499},
	{Key: "bio", Title: "Биология", Price: 349},
	{Key: "info", Title: "Информатика", Price: 349},
	{Key: "hist", Title: "История", Price: 349},
	{Key: "soc", Title: "Обществознание", Price: 349},
	{Key: "chem", Title: "Химия", Price: 329},
	{Key: "phys", Title: "Физика", Price: 329},
}

var programs = []Program{
	{Key: "стобальный", Title: "Стобальный"},
	{Key: "пифагор", Title: "Пифагор"},
}

// Subjects returns all subjects in display order.
func Subjects() []Subject {
	out := make([]Subject, len(subjects))
	copy(out, subjects)
	return out
}

// Programs returns all program variants in display order.
func Programs() []Program {
	out := make([]Program, len(programs))
	copy(out, programs)
	return out
}

// FindSubject looks up a subject by its callback key.
func FindSubject(key string) (Subject, bool) {
	for _, s := range subjects {
		if s.Key == key {
			return s, true
		}
	}
	return Subject{}, false
}

// FindProgram looks up a program by its callback key.
func FindProgram(key string) (Program, bool) {
	for _, p := range programs {
		if p.Key == key {
			return p, true
		}
	}
	return Program{}, false
}
