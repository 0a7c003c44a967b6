package catalog

import "testing"

func TestSubjects(t *testing.T) {
	subjects := Subjects()
	if len(subjects) != 8 {
		t.Fatalf("expected 8 subjects, got %d", len(subjects))
	}

	if subjects[0].Key != "math_p" || subjects[0].Price != 499 {
		t.Fatalf("unexpected first subject: %+v", subjects[0])
	}

	prices := map[string]int{
		"math_p": 499,
		"rus":    499,
		"bio":    349,
		"info":   349,
		"hist":   349,
		"soc":    349,
		"chem":   329,
		"phys":   329,
	}
	for _, s := range subjects {
		want, ok := prices[s.Key]
		if !ok {
			t.Fatalf("unexpected subject key %q", s.Key)
		}
		if s.Price != want {
			t.Errorf("subject %q price = %d, want %d", s.Key, s.Price, want)
		}
		if s.Title == "" {
			t.Errorf("subject %q has empty title", s.Key)
		}
	}
}

func TestPrograms(t *testing.T) {
	programs := Programs()
	if len(programs) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(programs))
	}
	if programs[0].Title != "Стобальный" || programs[1].Title != "Пифагор" {
		t.Fatalf("unexpected programs: %+v", programs)
	}
}

func TestFindSubject(t *testing.T) {
	subject, ok := FindSubject("chem")
	if !ok || subject.Title != "Химия" || subject.Price != 329 {
		t.Fatalf("unexpected lookup result: %+v %t", subject, ok)
	}

	if _, ok := FindSubject("nope"); ok {
		t.Fatal("expected lookup miss for unknown key")
	}
}

func TestFindProgram(t *testing.T) {
	program, ok := FindProgram("пифагор")
	if !ok || program.Title != "Пифагор" {
		t.Fatalf("unexpected lookup result: %+v %t", program, ok)
	}

	if _, ok := FindProgram("nope"); ok {
		t.Fatal("expected lookup miss for unknown key")
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	subjects := Subjects()
	subjects[0].Price = 1

	again := Subjects()
	if again[0].Price != 499 {
		t.Fatal("catalog was mutated through the returned slice")
	}
}
