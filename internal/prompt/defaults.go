package prompt

const defaultAdvice = `
Below is a resume and a job description.

Resume:
{{.Resume}}

Job Description:
{{.JobDescription}}

Suggest improvements in:
- Missing keywords/skills
- Gaps in experience
- Formatting issues
- Overall enhancements

Return suggestions as bullet points.
`

const defaultResume = `
Create a resume using the following structure and formatting style. Be concise, use bullet points, and highlight relevant skills and projects aligned to the job description.

Example Structure:
---
PROFILE SUMMARY
One paragraph summary...

WORK EXPERIENCE
Job Title
Company Name
Duration
• Task 1
• Task 2

EDUCATION
Degree - Year
University
Grade

KEY SKILLS
Skill 1, Skill 2, Skill 3, ...

PROJECTS
• Project 1 - Duration
• Project 2 - Duration

CERTIFICATIONS
• Certification - Date

PERSONAL DETAILS
Name: {{.Profile.Name}}
Email: {{.Profile.Email}}
Phone: {{.Profile.Phone}}
Location: {{.Profile.Location}}

Generate this resume tailored for the following job description:
{{.JobDescription}}
`
