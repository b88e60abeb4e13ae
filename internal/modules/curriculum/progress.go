package curriculum

const (
	StatusCompleted  = "completed"
	StatusInProgress = "in-progress"
	StatusLocked     = "locked"
	StatusAvailable  = "available"
)

type LessonView struct {
	LessonDef
	Order    int    `json:"order"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

type CourseView struct {
	Key           string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Image         string       `json:"image"`
	Difficulty    string       `json:"difficulty"`
	EstimatedTime string       `json:"estimatedTime"`
	Status        string       `json:"status"`
	Progress      int          `json:"progress"`
	Lessons       []LessonView `json:"lessons"`
}

type BadgeView struct {
	BadgeDef
	Earned   bool `json:"earned"`
	Progress int  `json:"progress"`
}

func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}

// CourseProgress lays out one course for a learner. Lessons are taken in order: completed
// ones stay completed, the first uncompleted one is in progress and the rest are locked.
func CourseProgress(course CourseDef, completed map[string]bool) CourseView {
	v := CourseView{
		Key:           course.Key,
		Title:         course.Title,
		Description:   course.Description,
		Image:         course.Image,
		Difficulty:    course.Difficulty,
		EstimatedTime: course.EstimatedTime,
		Lessons:       make([]LessonView, 0, len(course.Lessons)),
	}
	done := 0
	current := false
	for i, l := range course.Lessons {
		lv := LessonView{LessonDef: l, Order: i + 1, Status: StatusLocked}
		switch {
		case course.Locked:
		case completed[l.Key]:
			lv.Status = StatusCompleted
			lv.Progress = 100
			done++
		case !current:
			lv.Status = StatusInProgress
			current = true
		}
		v.Lessons = append(v.Lessons, lv)
	}
	v.Progress = percent(done, len(course.Lessons))
	switch {
	case course.Locked:
		v.Status = StatusLocked
	case len(course.Lessons) > 0 && done == len(course.Lessons):
		v.Status = StatusCompleted
	default:
		v.Status = StatusAvailable
	}
	return v
}

func (c *Catalog) Progress(completed map[string]bool) []CourseView {
	out := make([]CourseView, 0, len(c.Courses))
	for _, course := range c.Courses {
		out = append(out, CourseProgress(course, completed))
	}
	return out
}

// BadgeProgress evaluates every badge against the learner's completed lessons.
func (c *Catalog) BadgeProgress(completed map[string]bool) []BadgeView {
	out := make([]BadgeView, 0, len(c.Badges))
	for _, b := range c.Badges {
		bv := BadgeView{BadgeDef: b}
		switch {
		case b.Lesson != "":
			if completed[b.Lesson] {
				bv.Earned = true
				bv.Progress = 100
			}
		case b.Course != "":
			course, ok := c.Course(b.Course)
			if !ok {
				break
			}
			done := 0
			for _, l := range course.Lessons {
				if completed[l.Key] {
					done++
				}
			}
			bv.Progress = percent(done, len(course.Lessons))
			bv.Earned = len(course.Lessons) > 0 && done == len(course.Lessons)
		}
		out = append(out, bv)
	}
	return out
}
