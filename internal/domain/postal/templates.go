package postal

// TemplateName is the symbolic name of an email template.
type TemplateName string

const (
	TemplateCreateEvent             TemplateName = "create_event"
	TemplateMofoStaffNewEvent       TemplateName = "mofo_staff_new_event"
	TemplateWelcome                 TemplateName = "welcome"
	TemplateBadgeAwarded            TemplateName = "badge_awarded"
	TemplateBadgeAwardedSuperMentor TemplateName = "badge_awarded_super_mentor"
	TemplateEventHostBadgeAwarded   TemplateName = "event_host_badge_awarded"
	TemplateSkillSharerBadgeAwarded TemplateName = "skill_sharer_badge_awarded"
	TemplateTeachingKitBadgeAwarded TemplateName = "teaching_kit_badge_awarded"
)

// TemplateNames is the fixed set loaded when a Dispatcher is constructed.
var TemplateNames = []TemplateName{
	TemplateCreateEvent,
	TemplateMofoStaffNewEvent,
	TemplateWelcome,
	TemplateBadgeAwarded,
	TemplateBadgeAwardedSuperMentor,
	TemplateEventHostBadgeAwarded,
	TemplateSkillSharerBadgeAwarded,
	TemplateTeachingKitBadgeAwarded,
}

// Senders.
const (
	SenderEvents      = "Webmaker <events@webmaker.org>"
	SenderHelp        = "Webmaker <help@webmaker.org>"
	SenderSuperMentor = "Michelle Thorne <help@webmaker.org>"
)

// Subject keys and literals.
const (
	SubjectCreateEvent             = "Next steps for your event"
	SubjectWelcome                 = "emailTitle"
	SubjectBadgeAwarded            = "badgeAwardedSubject"
	SubjectBadgeAwardedSuperMentor = "badgeAwardedSuperMentorSubject"
	SubjectMofoStaff               = "A new event was created"
)

// BadgeTemplate is the template, subject key and sender used for a badge slug.
type BadgeTemplate struct {
	Template   TemplateName
	SubjectKey string
	Source     string
}

// badgeTemplates maps badge slugs to their email variant.
var badgeTemplates = map[string]BadgeTemplate{
	"webmaker-super-mentor": {TemplateBadgeAwardedSuperMentor, SubjectBadgeAwardedSuperMentor, SenderSuperMentor},
	"skill-sharer":          {TemplateSkillSharerBadgeAwarded, SubjectBadgeAwarded, SenderHelp},
	"event-host":            {TemplateEventHostBadgeAwarded, SubjectBadgeAwarded, SenderHelp},
	"teaching-kit-remixer":  {TemplateTeachingKitBadgeAwarded, SubjectBadgeAwarded, SenderHelp},
}

// defaultBadgeTemplate is used for every slug not in badgeTemplates.
var defaultBadgeTemplate = BadgeTemplate{TemplateBadgeAwarded, SubjectBadgeAwarded, SenderHelp}

// SelectBadgeTemplate returns the email variant for slug, or the generic one.
func SelectBadgeTemplate(slug string) BadgeTemplate {
	if bt, ok := badgeTemplates[slug]; ok {
		return bt
	}
	return defaultBadgeTemplate
}
