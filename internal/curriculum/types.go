package curriculum

// Course is a curriculum document: the practice catalog plus ordered modules.
type Course struct {
	Catalog Catalog        `yaml:"catalog"`
	Modules []CourseModule `yaml:"modules"`
}

// CourseModule groups lessons under a title and description.
type CourseModule struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Lessons     []CourseLesson `yaml:"lessons" json:"lessons"`
}

// CourseLesson is a single lesson made of ordered paragraphs.
type CourseLesson struct {
	Title   string   `yaml:"title" json:"title"`
	Content []string `yaml:"content" json:"content"`
}

// Catalog lists the practice themes and skill levels offered to students.
type Catalog struct {
	Themes []string `yaml:"themes" json:"themes"`
	Levels []string `yaml:"levels" json:"levels"`
}

func (m CourseModule) clone() CourseModule {
	lessons := make([]CourseLesson, len(m.Lessons))
	for i, l := range m.Lessons {
		lessons[i] = l.clone()
	}
	m.Lessons = lessons
	return m
}

func (l CourseLesson) clone() CourseLesson {
	l.Content = append([]string(nil), l.Content...)
	return l
}
