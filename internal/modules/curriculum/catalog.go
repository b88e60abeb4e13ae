package curriculum

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/verifeye-backend/internal/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

type LessonDef struct {
	Key           string `yaml:"key" json:"key"`
	Title         string `yaml:"title" json:"title"`
	Description   string `yaml:"description" json:"description"`
	Difficulty    string `yaml:"difficulty" json:"difficulty"`
	EstimatedTime string `yaml:"estimated_time" json:"estimatedTime"`
	Points        int    `yaml:"points" json:"points"`
}

type CourseDef struct {
	Key           string      `yaml:"key" json:"key"`
	Title         string      `yaml:"title" json:"title"`
	Description   string      `yaml:"description" json:"description"`
	Image         string      `yaml:"image" json:"image"`
	Difficulty    string      `yaml:"difficulty" json:"difficulty"`
	EstimatedTime string      `yaml:"estimated_time" json:"estimatedTime"`
	Locked        bool        `yaml:"locked" json:"locked"`
	Lessons       []LessonDef `yaml:"lessons" json:"lessons"`
}

// BadgeDef is earned by completing Lesson, or every lesson of Course.
type BadgeDef struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Emoji       string `yaml:"emoji" json:"emoji"`
	Lesson      string `yaml:"lesson" json:"lesson,omitempty"`
	Course      string `yaml:"course" json:"course,omitempty"`
}

type Catalog struct {
	Courses []CourseDef `yaml:"courses"`
	Badges  []BadgeDef  `yaml:"badges"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(catalogYAML)
	})
	return defaultCat, defaultErr
}

// Parse decodes and validates a catalog document.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	courses := map[string]bool{}
	lessons := map[string]bool{}
	for _, course := range c.Courses {
		if strings.TrimSpace(course.Key) == "" {
			return fmt.Errorf("curriculum: course without key")
		}
		if courses[course.Key] {
			return fmt.Errorf("curriculum: duplicate course %q", course.Key)
		}
		courses[course.Key] = true
		for _, l := range course.Lessons {
			if strings.TrimSpace(l.Key) == "" {
				return fmt.Errorf("curriculum: lesson without key in %q", course.Key)
			}
			if lessons[l.Key] {
				return fmt.Errorf("curriculum: duplicate lesson %q", l.Key)
			}
			if l.Points < 0 {
				return fmt.Errorf("curriculum: lesson %q has negative points", l.Key)
			}
			lessons[l.Key] = true
		}
	}
	for _, b := range c.Badges {
		switch {
		case b.Lesson != "" && !lessons[b.Lesson]:
			return fmt.Errorf("curriculum: badge %q references unknown lesson %q", b.Key, b.Lesson)
		case b.Course != "" && !courses[b.Course]:
			return fmt.Errorf("curriculum: badge %q references unknown course %q", b.Key, b.Course)
		case b.Lesson == "" && b.Course == "":
			return fmt.Errorf("curriculum: badge %q has no requirement", b.Key)
		}
	}
	return nil
}

func (c *Catalog) Course(key string) (CourseDef, bool) {
	for _, course := range c.Courses {
		if course.Key == key {
			return course, true
		}
	}
	return CourseDef{}, false
}

// Lesson finds a lesson by key along with its course.
func (c *Catalog) Lesson(key string) (LessonDef, CourseDef, bool) {
	for _, course := range c.Courses {
		for _, l := range course.Lessons {
			if l.Key == key {
				return l, course, true
			}
		}
	}
	return LessonDef{}, CourseDef{}, false
}

// LessonRows converts the catalog into lesson rows for seeding. Lessons of locked courses
// are stored unpublished.
func (c *Catalog) LessonRows() []*types.Lesson {
	var out []*types.Lesson
	for _, course := range c.Courses {
		for i, l := range course.Lessons {
			out = append(out, &types.Lesson{
				Key:         l.Key,
				CourseKey:   course.Key,
				Title:       l.Title,
				Description: l.Description,
				Order:       i + 1,
				XPReward:    l.Points,
				IsPublished: !course.Locked,
			})
		}
	}
	return out
}
