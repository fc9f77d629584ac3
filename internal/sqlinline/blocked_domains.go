package sqlinline

const QSelectBlockedDomains = `--sql 619cf4d8-9506-44bb-881f-e797c8890cdb
select domain, reason
from blocked_domains
order by domain;
`

const QUpsertBlockedDomain = `--sql 0249698f-770f-4891-b66a-ab5cf04050d4
insert into blocked_domains (domain, reason, created_at)
values ($1, $2, now())
on conflict (domain) do update set reason = excluded.reason;
`

const QDeleteBlockedDomain = `--sql dcdc9283-c325-49ed-823d-cd6422db8aba
delete from blocked_domains
where domain = $1;
`
